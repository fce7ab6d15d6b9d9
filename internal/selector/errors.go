package selector

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// SourceName is the pseudo filename used in ranges of selector errors.
const SourceName = "selector"

// SyntaxError describes one problem found while parsing a selector.
type SyntaxError struct {
	// Source is the complete selector text the range points into.
	Source   string
	Range    hcl.Range
	Expected []string
	Found    string
	// Reason replaces the expected/found summary for semantic errors.
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("selector %q at column %d: %s", e.Source, e.Range.Start.Column, e.summary())
}

func (e *SyntaxError) summary() string {
	if e.Reason != "" {
		return e.Reason
	}
	found := e.Found
	if found == "" {
		found = "end of input"
	}
	switch len(e.Expected) {
	case 0:
		return "unexpected " + found
	case 1:
		return fmt.Sprintf("expected %s, found %s", e.Expected[0], found)
	default:
		return fmt.Sprintf("expected one of %s, found %s", strings.Join(e.Expected, ", "), found)
	}
}

// Diagnostic converts e for HCL's diagnostic printers. The subject range
// refers to SourceName, whose bytes are e.Source.
func (e *SyntaxError) Diagnostic() *hcl.Diagnostic {
	rng := e.Range
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid selector",
		Detail:   e.summary() + ".",
		Subject:  &rng,
	}
}

// Errors collects every independent problem of one selector.
type Errors []*SyntaxError

func (es Errors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d selector errors: %s", len(es), strings.Join(msgs, "; "))
}

func (es Errors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// Diagnostics converts every error for HCL's diagnostic printers.
func (es Errors) Diagnostics() hcl.Diagnostics {
	diags := make(hcl.Diagnostics, len(es))
	for i, e := range es {
		diags[i] = e.Diagnostic()
	}
	return diags
}
