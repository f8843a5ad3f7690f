// Package cli parses command-line arguments into an app.Config. It owns the
// usage text and the exit-code convention; it performs no selection logic of
// its own.
package cli
