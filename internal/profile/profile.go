// Package profile loads hash request profiles from HCL files. A profile is
// the CLI's way of expressing a batch of capability invocations:
//
//	hash "checksum" {
//	  options = { algorithm = "fnv1a" }
//	  input   = "hello world"
//	}
//
// The options attribute is optional; a request without it resolves against
// the capability's default selection.
package profile

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/capsel/internal/ctxlog"
	"github.com/vk/capsel/internal/fsutil"
	"github.com/vk/capsel/internal/options"
)

// Request is one hash invocation declared in a profile.
type Request struct {
	Label   string
	Input   string
	Opts    options.Options
	HasOpts bool
}

var profileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "hash", LabelNames: []string{"name"}},
	},
}

var hashBlockSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "input", Required: true},
		{Name: "options", Required: false},
	},
}

// Load reads every request from the given path, which may be a single .hcl
// file or a directory scanned recursively. Requests keep file order, with
// files visited in sorted path order.
func Load(ctx context.Context, path string) ([]Request, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("profile: scanning %s: %w", path, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("profile: no .hcl files found under %s", path)
		}
	}

	parser := hclparse.NewParser()
	var requests []Request
	for _, file := range files {
		reqs, err := parseFile(parser, file)
		if err != nil {
			return nil, err
		}
		requests = append(requests, reqs...)
	}

	logger.Debug("Profile loaded.", "path", path, "files", len(files), "requests", len(requests))
	return requests, nil
}

func parseFile(parser *hclparse.Parser, path string) ([]Request, error) {
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("profile: failed to parse %s: %s", path, diags.Error())
	}

	content, diags := file.Body.Content(profileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("profile: invalid content in %s: %s", path, diags.Error())
	}

	var requests []Request
	for _, block := range content.Blocks {
		req, err := decodeHashBlock(block)
		if err != nil {
			return nil, fmt.Errorf("profile: %s: %w", path, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func decodeHashBlock(block *hcl.Block) (Request, error) {
	label := block.Labels[0]

	body, diags := block.Body.Content(hashBlockSchema)
	if diags.HasErrors() {
		return Request{}, fmt.Errorf("hash %q: %s", label, diags.Error())
	}

	inputVal, diags := body.Attributes["input"].Expr.Value(nil)
	if diags.HasErrors() {
		return Request{}, fmt.Errorf("hash %q: evaluating input: %s", label, diags.Error())
	}
	if inputVal.Type() != cty.String {
		return Request{}, fmt.Errorf("hash %q: input must be a string, got %s", label, inputVal.Type().FriendlyName())
	}

	req := Request{Label: label, Input: inputVal.AsString()}

	if attr, ok := body.Attributes["options"]; ok {
		optsVal, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return Request{}, fmt.Errorf("hash %q: evaluating options: %s", label, diags.Error())
		}
		opts, err := options.FromObject(optsVal)
		if err != nil {
			return Request{}, fmt.Errorf("hash %q: %w", label, err)
		}
		req.Opts, req.HasOpts = opts, true
	}
	return req, nil
}
