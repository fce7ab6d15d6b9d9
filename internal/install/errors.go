package install

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDependencyNotFound marks a dependency pattern that matched no item.
	ErrDependencyNotFound = errors.New("dependency not found")
	// ErrCyclicDependency marks a cycle through generic depends.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrCyclicInstallDependency marks a cycle through installs.depends.
	ErrCyclicInstallDependency = errors.New("cyclic installation dependency")
)

// DependencyError is a planning failure. errors.Is matches it against one of
// the sentinel errors above.
type DependencyError struct {
	Item    string
	Pattern string
	// Path is the cycle for cyclic errors.
	Path []string
	Kind error
	Err  error
}

func (e *DependencyError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%v: %s", e.Kind, strings.Join(e.Path, " -> "))
	}
	return fmt.Sprintf("%v: %q required by %s", e.Kind, e.Pattern, e.Item)
}

func (e *DependencyError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// CommandError is a failed install command.
type CommandError struct {
	Item    string
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("installing %s: command %q failed: %v", e.Item, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// PrepareError is an install command that could not be rendered or split
// into arguments.
type PrepareError struct {
	Item string
	Err  error
}

func (e *PrepareError) Error() string {
	return fmt.Sprintf("preparing install command of %s: %v", e.Item, e.Err)
}

func (e *PrepareError) Unwrap() error { return e.Err }
