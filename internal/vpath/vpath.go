// Package vpath works with virtual absolute paths: slash-separated paths
// rooted at the top of the dotfiles tree, independent of the host filesystem.
package vpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Root is the virtual root of the dotfiles tree.
const Root = "/"

// Error reports a path that cannot be turned into a virtual absolute path.
type Error struct {
	Path   string
	Base   string
	Reason string
}

func (e *Error) Error() string {
	if e.Base != "" {
		return fmt.Sprintf("cannot resolve path %q relative to %q: %s", e.Path, e.Base, e.Reason)
	}
	return fmt.Sprintf("cannot resolve path %q: %s", e.Path, e.Reason)
}

// Absolutize cleans p into a virtual absolute path. Backslashes count as
// separators on every host, "." and ".." segments are collapsed, and a path
// that climbs above the root is rejected.
func Absolutize(p string) (string, error) {
	if p == "" {
		return "", &Error{Path: p, Reason: "path is empty"}
	}
	clean, ok := collapse(toSlash(p))
	if !ok {
		return "", &Error{Path: p, Reason: "path escapes the dotfiles root"}
	}
	return clean, nil
}

// Resolve interprets ref from the directory base. A ref starting with "/" is
// already rooted; anything else is joined onto base first. Glob characters
// pass through untouched, but a backslash is a separator, so a literal glob
// character is written as a class such as "[*]".
func Resolve(base, ref string) (string, error) {
	if ref == "" {
		return "", &Error{Path: ref, Base: base, Reason: "path is empty"}
	}
	ref = toSlash(ref)
	joined := ref
	if !strings.HasPrefix(ref, "/") {
		joined = strings.TrimSuffix(toSlash(base), "/") + "/" + ref
	}
	clean, ok := collapse(joined)
	if !ok {
		return "", &Error{Path: ref, Base: base, Reason: "path escapes the dotfiles root"}
	}
	return clean, nil
}

// FromRelative converts a host path relative to the tree root into a virtual
// absolute path.
func FromRelative(rel string) string {
	clean, ok := collapse("/" + filepath.ToSlash(rel))
	if !ok {
		return Root
	}
	return clean
}

// Dir returns the parent directory of p. The parent of the root is the root.
func Dir(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return Root
	}
	return p[:i]
}

// Ancestors lists p followed by every parent up to and including the root.
func Ancestors(p string) []string {
	out := []string{p}
	for p != Root {
		p = Dir(p)
		out = append(out, p)
	}
	return out
}

// toSlash treats a backslash as a separator on every host.
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func collapse(p string) (string, bool) {
	var stack []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(stack) == 0 {
				return "", false
			}
			stack = stack[:len(stack)-1]
		default:
			stack = append(stack, seg)
		}
	}
	return "/" + strings.Join(stack, "/"), true
}
