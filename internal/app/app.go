package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/capsel/internal/capability"
	"github.com/vk/capsel/internal/hashcap"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	hash   *capability.Capability[hashcap.Func]
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and hashing
// capability. When no modules are given the compiled-in core list is used.
func NewApp(outW io.Writer, cfg *Config, modules ...hashcap.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	hash := hashcap.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		if err := mod.Register(hash); err != nil {
			// A compiled-in module shipping an invalid descriptor is a
			// programmer error, so we panic; the entrypoint recovers.
			panic(fmt.Errorf("failed to register hash module: %w", err))
		}
	}
	logger.Debug("All hash modules registered.", "count", len(modules))

	return &App{
		outW:   outW,
		logger: logger,
		hash:   hash,
	}
}

// Hash returns the application's hashing capability. This is primarily for testing.
func (a *App) Hash() *capability.Capability[hashcap.Func] {
	return a.hash
}
