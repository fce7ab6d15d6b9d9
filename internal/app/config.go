package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/specialistvlad/dotgrid/internal/templating"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Dotfiles is the directory holding the dots.
	Dotfiles string `validate:"required"`
	// ShellCommand wraps every install command; ${cmd} is the command.
	ShellCommand string `validate:"required"`
	LogLevel     string `validate:"required,oneof=debug info warn error"`
	LogFormat    string `validate:"required,oneof=text json"`
	DryRun       bool
	// Variables are user values exposed to templates as config.variables.
	Variables map[string]string `validate:"dive,keys,required,endkeys"`
}

// DefaultShellCommand is the shell wrapper used when none is configured.
func DefaultShellCommand(goos string) string {
	if goos == "windows" {
		return "cmd /C ${cmd}"
	}
	return "bash -c ${quote(cmd)}"
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig fills in defaults, expands a leading ~/ in Dotfiles and validates
// the result.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ShellCommand == "" {
		cfg.ShellCommand = DefaultShellCommand(runtime.GOOS)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := validate.Struct(cfg); err != nil {
		return nil, configError(err)
	}

	dotfiles, err := expandHome(cfg.Dotfiles)
	if err != nil {
		return nil, err
	}
	cfg.Dotfiles = dotfiles
	return &cfg, nil
}

// Templating returns the part of the configuration templates can see.
func (c *Config) Templating() templating.Config {
	return templating.Config{
		Dotfiles:     filepath.ToSlash(c.Dotfiles),
		ShellCommand: c.ShellCommand,
		Variables:    c.Variables,
	}
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", p, err)
	}
	return filepath.Join(home, p[1:]), nil
}

func configError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs[i] = fmt.Sprintf("%s is required", fe.Namespace())
		case "oneof":
			msgs[i] = fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value())
		default:
			msgs[i] = fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag())
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
