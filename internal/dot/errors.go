package dot

import (
	"fmt"
	"strings"
)

// KeyError ties a problem to the document key it was found under.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key %q: %v", e.Key, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }

// FormatError reports a document that fits neither the explicit nor the
// simplified shape. Both underlying errors are kept.
type FormatError struct {
	Filename   string
	Explicit   error
	Simplified error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	name := e.Filename
	if name == "" {
		name = "document"
	}
	fmt.Fprintf(&b, "%s matches neither dot shape", name)
	fmt.Fprintf(&b, "\n  as selector blocks: %s", indent(e.Explicit.Error()))
	fmt.Fprintf(&b, "\n  as a single block: %s", indent(e.Simplified.Error()))
	return b.String()
}

func (e *FormatError) Unwrap() []error {
	return []error{e.Explicit, e.Simplified}
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
