package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/dotgrid/internal/ctxlog"
	"github.com/specialistvlad/dotgrid/internal/errs"
	"github.com/specialistvlad/dotgrid/internal/install"
	"github.com/specialistvlad/dotgrid/internal/resolve"
	"github.com/specialistvlad/dotgrid/internal/selector"
	"github.com/specialistvlad/dotgrid/internal/templating"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW     io.Writer
	errW     io.Writer
	logger   *slog.Logger
	config   *Config
	tree     billy.Filesystem
	renderer templating.Renderer
	os       selector.OS
	runner   install.Runner
}

// Option replaces one of the App's collaborators, mostly for tests.
type Option func(*App)

// WithTree serves the dots from tree instead of the Dotfiles directory.
func WithTree(tree billy.Filesystem) Option {
	return func(a *App) { a.tree = tree }
}

// WithRenderer replaces the template engine built from the live system facts.
func WithRenderer(r templating.Renderer) Option {
	return func(a *App) { a.renderer = r }
}

// WithOS resolves selectors for os instead of the running platform.
func WithOS(os selector.OS) Option {
	return func(a *App) { a.os = os }
}

// WithRunner replaces the process runner used by Install.
func WithRunner(r install.Runner) Option {
	return func(a *App) { a.runner = r }
}

// NewApp creates an App. Results go to outW; logs and command output go to
// errW.
func NewApp(outW, errW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{
		outW:   outW,
		errW:   errW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, errW),
		config: cfg,
		os:     selector.Current(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.renderer == nil {
		a.renderer = templating.NewEngine(templating.CaptureFacts(runtime.GOOS))
	}
	if a.runner == nil {
		a.runner = install.ExecRunner{Stdout: errW, Stderr: errW}
	}
	a.logger.Debug("App: Configured.", "dotfiles", cfg.Dotfiles, "os", a.os, "dry_run", cfg.DryRun)
	return a
}

// Resolve prints the resolved dots matching globs as YAML. Dots that fail are
// reported through the returned error after the rest are printed.
func (a *App) Resolve(ctx context.Context, globs []string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	items, resolveErr := a.resolve(ctx, globs)
	if items == nil && resolveErr != nil {
		return resolveErr
	}

	enc := yaml.NewEncoder(a.outW)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("writing resolved dots: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("writing resolved dots: %w", err)
	}
	return resolveErr
}

// Install resolves every dot and installs those matching globs. Any dot that
// fails to resolve aborts the run before a command is started.
func (a *App) Install(ctx context.Context, globs []string, opts install.Options) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	items, err := a.resolve(ctx, nil)
	if err != nil {
		return err
	}

	opts.DryRun = opts.DryRun || a.config.DryRun
	executor := install.New(a.renderer, a.runner, a.config.Templating(), opts)
	report, err := executor.Run(ctx, items, globs)
	if err != nil {
		return err
	}

	var failed errs.Multi
	for _, name := range report.Attempted {
		if e, ok := report.Failed[name]; ok {
			failed.Append(e)
		}
	}
	a.logger.Info("App: Install finished.", "attempted", len(report.Attempted), "failed", len(failed.Errors))
	return failed.ErrorOrNil()
}

func (a *App) resolve(ctx context.Context, globs []string) ([]resolve.Item, error) {
	tree, err := a.dotfiles()
	if err != nil {
		return nil, err
	}
	return resolve.New(tree, a.renderer, a.os, a.config.Templating()).Resolve(ctx, globs)
}

func (a *App) dotfiles() (billy.Filesystem, error) {
	if a.tree != nil {
		return a.tree, nil
	}
	info, err := os.Stat(a.config.Dotfiles)
	if err != nil {
		return nil, fmt.Errorf("dotfiles directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dotfiles directory %s is not a directory", a.config.Dotfiles)
	}
	a.tree = osfs.New(a.config.Dotfiles)
	return a.tree, nil
}
