package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
)

func decodeJSON(text []byte, filename string) ([]Entry, error) {
	clean := jsonc.ToJSON(text)
	dec := json.NewDecoder(bytes.NewReader(clean))

	wrap := func(err error) error {
		jsonErr := &Error{Format: JSON, Filename: filename, Err: err}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			jsonErr.Line, jsonErr.Column = lineColumn(clean, syntaxErr.Offset)
		}
		return jsonErr
	}

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, wrap(errors.New("top level must be an object"))
	}

	var entries []Entry
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, wrap(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, wrap(fmt.Errorf("expected object key, found %v", tok))
		}
		if seen[key] {
			return nil, wrap(fmt.Errorf("duplicate key %q", key))
		}
		seen[key] = true

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, wrap(fmt.Errorf("key %q: %w", key, err))
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, wrap(err)
	}

	end := dec.InputOffset()
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		trailing := &Error{Format: JSON, Filename: filename, Err: errors.New("unexpected data after the top-level object")}
		rest := bytes.TrimLeft(clean[end:], " \t\r\n")
		trailing.Line, trailing.Column = lineColumn(clean, int64(len(clean)-len(rest)))
		return nil, trailing
	}
	return entries, nil
}

func lineColumn(text []byte, offset int64) (int, int) {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	before := text[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}
