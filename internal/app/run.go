package app

import (
	"context"
	"fmt"

	"github.com/vk/capsel/internal/capability"
	"github.com/vk/capsel/internal/ctxlog"
	"github.com/vk/capsel/internal/hashcap"
	"github.com/vk/capsel/internal/profile"
)

// Run executes the application: either listing the registered
// implementations or loading the profile and resolving every request in it.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if cfg.List {
		return a.listImplementations(ctx)
	}

	requests, err := profile.Load(ctx, cfg.ProfilePath)
	if err != nil {
		return err
	}

	for _, req := range requests {
		res, err := a.selectionFor(ctx, req)
		if err != nil {
			return fmt.Errorf("hash %q: %w", req.Label, err)
		}
		digest := res.Impl([]byte(req.Input))
		a.logger.Debug("Request resolved.", "label", req.Label, "implementation", res.Name, "score", float64(res.Score))
		fmt.Fprintf(a.outW, "%s: 0x%016x (implementation=%s score=%.2f)\n", req.Label, digest, res.Name, float64(res.Score))
	}
	return nil
}

func (a *App) selectionFor(ctx context.Context, req profile.Request) (capability.Result[hashcap.Func], error) {
	if req.HasOpts {
		return a.hash.Selection(ctx, req.Opts)
	}
	return a.hash.DefaultSelection(ctx)
}

func (a *App) listImplementations(ctx context.Context) error {
	def, err := a.hash.Default(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "capability: %s\n", a.hash.Name())
	fmt.Fprintf(a.outW, "default: %s (score=%.2f)\n", def.Name, float64(def.Score))
	fmt.Fprintln(a.outW, "implementations:")
	for _, name := range a.hash.Implementations() {
		fmt.Fprintf(a.outW, "  %s\n", name)
	}
	return nil
}
