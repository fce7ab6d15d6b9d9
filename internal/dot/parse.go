package dot

import (
	"github.com/specialistvlad/dotgrid/internal/errs"
	"github.com/specialistvlad/dotgrid/internal/format"
	"github.com/specialistvlad/dotgrid/internal/selector"
)

// GlobalKey is the source text of the block a simplified document is stored
// under.
const GlobalKey = "global"

// Parse decodes text in format f into a Document. Syntax errors of the
// underlying format are returned as *format.Error; a document that fits
// neither shape yields *FormatError.
func Parse(text []byte, filename string, f format.Format) (*Document, error) {
	entries, err := format.Decode(text, filename, f)
	if err != nil {
		return nil, err
	}

	doc, explicitErr := parseExplicit(entries)
	if explicitErr == nil {
		return doc, nil
	}

	raw, simplifiedErr := DecodeCapabilities(format.AsMap(entries))
	if simplifiedErr != nil {
		return nil, &FormatError{Filename: filename, Explicit: explicitErr, Simplified: simplifiedErr}
	}

	doc = NewDocument()
	doc.Add(Block{Source: GlobalKey, Selectors: selector.GlobalSelectors(), Raw: raw})
	return doc, nil
}

func parseExplicit(entries []format.Entry) (*Document, error) {
	doc := NewDocument()
	var failed errs.Multi
	for _, entry := range entries {
		sel, selErr := selector.Parse(entry.Key)
		if selErr != nil {
			failed.Append(&KeyError{Key: entry.Key, Err: selErr})
		}
		raw, rawErr := DecodeCapabilities(entry.Value)
		if rawErr != nil {
			failed.Append(&KeyError{Key: entry.Key, Err: rawErr})
		}
		if selErr == nil && rawErr == nil {
			doc.Add(Block{Source: entry.Key, Selectors: sel, Raw: raw})
		}
	}
	if err := failed.ErrorOrNil(); err != nil {
		return nil, err
	}
	return doc, nil
}
