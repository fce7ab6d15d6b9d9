package format

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

func decodeYAML(text []byte, filename string) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return nil, &Error{Format: YAML, Filename: filename, Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &Error{
			Format:   YAML,
			Filename: filename,
			Line:     root.Line,
			Column:   root.Column,
			Err:      errors.New("top level must be a mapping"),
		}
	}

	entries := make([]Entry, 0, len(root.Content)/2)
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		if seen[keyNode.Value] {
			return nil, &Error{
				Format:   YAML,
				Filename: filename,
				Line:     keyNode.Line,
				Column:   keyNode.Column,
				Err:      fmt.Errorf("duplicate key %q", keyNode.Value),
			}
		}
		seen[keyNode.Value] = true
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return nil, &Error{
				Format:   YAML,
				Filename: filename,
				Line:     valueNode.Line,
				Column:   valueNode.Column,
				Err:      fmt.Errorf("key %q: %w", keyNode.Value, err),
			}
		}
		entries = append(entries, Entry{Key: keyNode.Value, Value: value})
	}
	return entries, nil
}
