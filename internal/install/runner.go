package install

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// Runner spawns install commands. With dryRun set it must not have any side
// effect and returns an empty output.
type Runner interface {
	Run(ctx context.Context, program string, args []string, silent, dryRun bool) (string, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	// Stdout and Stderr receive the command output unless silent. Nil
	// discards it.
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, program string, args []string, silent, dryRun bool) (string, error) {
	if dryRun {
		return "", nil
	}

	var captured bytes.Buffer
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdout = &captured
	cmd.Stderr = &captured
	if !silent {
		if r.Stdout != nil {
			cmd.Stdout = io.MultiWriter(&captured, r.Stdout)
		}
		if r.Stderr != nil {
			cmd.Stderr = io.MultiWriter(&captured, r.Stderr)
		}
	}

	err := cmd.Run()
	return captured.String(), err
}
