package format

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

func decodeTOML(text []byte, filename string) ([]Entry, error) {
	var values map[string]any
	if err := toml.Unmarshal(text, &values); err != nil {
		tomlErr := &Error{Format: TOML, Filename: filename, Err: err}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			tomlErr.Line, tomlErr.Column = decodeErr.Position()
		}
		return nil, tomlErr
	}

	order, err := topLevelKeys(text)
	if err != nil {
		return nil, &Error{Format: TOML, Filename: filename, Err: err}
	}

	entries := make([]Entry, 0, len(order))
	for _, key := range order {
		entries = append(entries, Entry{Key: key, Value: values[key]})
	}
	return entries, nil
}

// topLevelKeys lists the first segment of every top-level key and table
// header in source order. Key/values after the first table header belong to
// that table.
func topLevelKeys(text []byte) ([]string, error) {
	var (
		p       unstable.Parser
		order   []string
		seen    = map[string]bool{}
		inTable bool
	)
	p.Reset(text)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.KeyValue:
			if inTable {
				continue
			}
		case unstable.Table, unstable.ArrayTable:
			inTable = true
		default:
			continue
		}

		it := expr.Key()
		if !it.Next() {
			continue
		}
		key := string(it.Node().Data)
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}
	return order, p.Error()
}
