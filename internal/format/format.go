// Package format decodes the serialization formats a dot or defaults file may
// be written in into an ordered list of top-level entries with generic values.
package format

import (
	"fmt"
	"path"
	"strings"
)

// Format is one supported serialization format.
type Format int

const (
	YAML Format = iota
	TOML
	JSON
	HCL
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	case JSON:
		return "json"
	case HCL:
		return "hcl"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

var extensions = map[string]Format{
	"yaml": YAML,
	"yml":  YAML,
	"toml": TOML,
	"json": JSON,
	"hcl":  HCL,
}

// Extensions lists every recognized file extension without the leading dot,
// in lookup priority order.
func Extensions() []string {
	return []string{"yaml", "yml", "toml", "json", "hcl"}
}

// FromExtension resolves a file extension with or without its leading dot.
func FromExtension(ext string) (Format, bool) {
	f, ok := extensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return f, ok
}

// FromPath resolves the format from the extension of p.
func FromPath(p string) (Format, bool) {
	return FromExtension(path.Ext(p))
}

// Entry is one top-level key of a document and its generic value. Values are
// made of map[string]any, []any, string, bool and numbers.
type Entry struct {
	Key   string
	Value any
}

// Error reports a document that could not be decoded.
type Error struct {
	Format   Format
	Filename string
	// Line and Column are 1-based; zero when the decoder gave no position.
	Line   int
	Column int
	Err    error
}

func (e *Error) Error() string {
	loc := e.Filename
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", loc, e.Line, e.Column)
	}
	return fmt.Sprintf("%s: invalid %s: %v", loc, e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Decode splits text into its ordered top-level entries.
func Decode(text []byte, filename string, f Format) ([]Entry, error) {
	switch f {
	case YAML:
		return decodeYAML(text, filename)
	case TOML:
		return decodeTOML(text, filename)
	case JSON:
		return decodeJSON(text, filename)
	case HCL:
		return decodeHCL(text, filename)
	default:
		return nil, fmt.Errorf("unsupported format %s", f)
	}
}

// AsMap folds entries into a plain map.
func AsMap(entries []Entry) map[string]any {
	m := make(map[string]any, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Value
	}
	return m
}

// Rank orders the extension of p by Extensions; lower is preferred and
// unknown extensions sort last.
func Rank(p string) int {
	ext := strings.TrimPrefix(path.Ext(p), ".")
	for i, e := range Extensions() {
		if strings.EqualFold(e, ext) {
			return i
		}
	}
	return len(Extensions())
}
