package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/dotgrid/internal/app"
	"github.com/specialistvlad/dotgrid/internal/install"
)

// Environment variables consulted when the matching flag is not given.
const (
	EnvDotfiles     = "DOTGRID_DOTFILES"
	EnvShellCommand = "DOTGRID_SHELL_COMMAND"
	EnvLogLevel     = "DOTGRID_LOG_LEVEL"
)

// DefaultDotfiles is the dotfiles directory used when nothing else is set.
const DefaultDotfiles = "~/.dotfiles"

// ExitError is a custom error type that includes a specific exit code. An
// empty Message means the failure was already reported.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	dotfiles     string
	shellCommand string
	logLevel     string
	logFormat    string
	dryRun       bool
	variables    map[string]string
}

type command struct {
	outW   io.Writer
	errW   io.Writer
	getenv func(string) string
	flags  globalFlags
}

// Execute runs the command line args. Results go to outW, logs and errors to
// errW.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	return execute(ctx, args, outW, errW, os.Getenv)
}

func execute(ctx context.Context, args []string, outW, errW io.Writer, getenv func(string) string) error {
	c := &command{outW: outW, errW: errW, getenv: getenv}
	root := c.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: 2, Message: err.Error()}
}

func (c *command) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dotgrid",
		Short: "Resolve and install dotfiles described by dot files.",
		Long: `dotgrid reads a tree of dot files, resolves them for the current machine
and installs them in dependency order.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(c.outW)
	root.SetErr(c.errW)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.flags.dotfiles, "dotfiles", "d", "", "Directory holding the dots. Env: "+EnvDotfiles+" (default "+DefaultDotfiles+")")
	pf.StringVar(&c.flags.shellCommand, "shell-command", "", "Template wrapping every install command, ${cmd} is the command. Env: "+EnvShellCommand)
	pf.StringVar(&c.flags.logLevel, "log-level", "", "Logging level: debug, info, warn or error. Env: "+EnvLogLevel+" (default info)")
	pf.StringVar(&c.flags.logFormat, "log-format", "text", "Log output format: text or json.")
	pf.BoolVarP(&c.flags.dryRun, "dry-run", "r", false, "Show what would be done without changing anything.")
	pf.StringToStringVar(&c.flags.variables, "var", nil, "Template variable as key=value, available as config.variables.<key>. Repeatable.")

	root.AddCommand(c.resolveCommand(), c.installCommand())
	return root
}

func (c *command) resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [dots...]",
		Short: "Print the resolved dots as YAML.",
		Long: `Print the resolved dots as YAML. Dots are selected by glob patterns over their
path in the dotfiles directory; all dots are printed when none is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			return c.report(a.Resolve(cmd.Context(), args))
		},
	}
}

func (c *command) installCommand() *cobra.Command {
	var opts install.Options
	var skipAll bool
	cmd := &cobra.Command{
		Use:   "install [dots...]",
		Short: "Install dots and their dependencies.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			if skipAll {
				opts.SkipDependencies = true
				opts.SkipInstallDependencies = true
			}
			return c.report(a.Install(cmd.Context(), args, opts))
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&opts.ContinueOnError, "continue-on-error", "c", false, "Keep installing other dots when a command fails.")
	f.BoolVarP(&opts.SkipDependencies, "skip-dependencies", "s", false, "Do not install the dots listed in depends.")
	f.BoolVarP(&opts.SkipInstallDependencies, "skip-installation-dependencies", "i", false, "Do not install the dots listed in installs.depends.")
	f.BoolVarP(&skipAll, "skip-all-dependencies", "a", false, "Skip both kinds of dependencies.")
	return cmd
}

// config merges flags with their environment fallbacks.
func (c *command) config(cmd *cobra.Command) (*app.Config, error) {
	pf := cmd.Flags()
	pick := func(name, value, env, fallback string) string {
		if pf.Changed(name) {
			return value
		}
		if v := c.getenv(env); v != "" {
			return v
		}
		return fallback
	}

	cfg, err := app.NewConfig(app.Config{
		Dotfiles:     pick("dotfiles", c.flags.dotfiles, EnvDotfiles, DefaultDotfiles),
		ShellCommand: pick("shell-command", c.flags.shellCommand, EnvShellCommand, ""),
		LogLevel:     pick("log-level", c.flags.logLevel, EnvLogLevel, "info"),
		LogFormat:    c.flags.logFormat,
		DryRun:       c.flags.dryRun,
		Variables:    c.flags.variables,
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}

func (c *command) newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := c.config(cmd)
	if err != nil {
		return nil, err
	}
	return app.NewApp(c.outW, c.errW, cfg), nil
}

// report prints a runtime failure and turns it into exit code 1.
func (c *command) report(err error) error {
	if err == nil {
		return nil
	}
	app.WriteError(c.errW, err)
	return &ExitError{Code: 1}
}
