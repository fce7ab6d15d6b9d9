// Package errs holds error helpers shared across the resolver packages.
package errs

import (
	"fmt"
	"strings"
)

// Multi is a list of independent errors reported together. errors.Is and
// errors.As walk every member.
type Multi struct {
	Errors []error
}

// Append adds err to m, flattening a Multi passed directly. An error that
// wraps a Multi is kept whole. A nil err is ignored.
func (m *Multi) Append(err error) {
	if err == nil {
		return
	}
	if nested, ok := err.(*Multi); ok && nested != m {
		m.Errors = append(m.Errors, nested.Errors...)
		return
	}
	m.Errors = append(m.Errors, err)
}

// ErrorOrNil returns nil for an empty Multi, the sole error for a single
// member and m otherwise.
func (m *Multi) ErrorOrNil() error {
	switch len(m.Errors) {
	case 0:
		return nil
	case 1:
		return m.Errors[0]
	default:
		return m
	}
}

func (m *Multi) Error() string {
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:", len(m.Errors))
	for _, err := range m.Errors {
		b.WriteString("\n  * ")
		b.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n    "))
	}
	return b.String()
}

func (m *Multi) Unwrap() []error {
	return m.Errors
}
