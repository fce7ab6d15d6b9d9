package selector

import (
	"fmt"
	"runtime"
	"strings"
)

// OS identifies the operating system an alternative targets.
type OS int

const (
	Global OS = iota
	Windows
	Linux
	Darwin
)

var osNames = map[OS]string{
	Global:  "global",
	Windows: "windows",
	Linux:   "linux",
	Darwin:  "darwin",
}

func (o OS) String() string {
	if name, ok := osNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OS(%d)", int(o))
}

// ParseOS returns the OS for a lowercase name.
func ParseOS(name string) (OS, bool) {
	for o, n := range osNames {
		if n == name {
			return o, true
		}
	}
	return Global, false
}

// Current maps the running platform onto an OS tag. Every unix flavour other
// than macOS is treated as Linux.
func Current() OS {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "darwin":
		return Darwin
	default:
		return Linux
	}
}

// Operator compares a rendered attribute with a literal.
type Operator int

const (
	Eq Operator = iota
	StartsWith
	EndsWith
	Contains
	NotEq
)

var operatorSymbols = map[Operator]string{
	Eq:         "=",
	StartsWith: "^=",
	EndsWith:   "$=",
	Contains:   "*=",
	NotEq:      "!=",
}

func (op Operator) String() string {
	if sym, ok := operatorSymbols[op]; ok {
		return sym
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// Matches reports whether actual relates to expected under op.
func (op Operator) Matches(actual, expected string) bool {
	switch op {
	case Eq:
		return actual == expected
	case StartsWith:
		return strings.HasPrefix(actual, expected)
	case EndsWith:
		return strings.HasSuffix(actual, expected)
	case Contains:
		return strings.Contains(actual, expected)
	case NotEq:
		return actual != expected
	default:
		return false
	}
}

// Predicate is a single attribute test such as whoami.username="alice".
type Predicate struct {
	Key   string
	Op    Operator
	Value string
}

func (p Predicate) String() string {
	return p.Key + p.Op.String() + quote(p.Value)
}

// Alternative is one "|"-separated branch of a selector.
type Alternative struct {
	OS         OS
	Predicates []Predicate
}

func (a Alternative) String() string {
	if len(a.Predicates) == 0 {
		return a.OS.String()
	}
	parts := make([]string, len(a.Predicates))
	for i, p := range a.Predicates {
		parts[i] = p.String()
	}
	return a.OS.String() + "[" + strings.Join(parts, ", ") + "]"
}

// Selectors is a non-empty list of alternatives.
type Selectors []Alternative

// String renders the canonical form, which parses back to an equal value.
func (s Selectors) String() string {
	parts := make([]string, len(s))
	for i, alt := range s {
		parts[i] = alt.String()
	}
	return strings.Join(parts, " | ")
}

// IsGlobal reports whether s is the single global alternative without
// attributes.
func (s Selectors) IsGlobal() bool {
	return len(s) == 1 && s[0].OS == Global && len(s[0].Predicates) == 0
}

// GlobalSelectors is the selector a simplified document is filed under.
func GlobalSelectors() Selectors {
	return Selectors{{OS: Global}}
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
