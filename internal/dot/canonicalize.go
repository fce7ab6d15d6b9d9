package dot

import (
	"fmt"

	"github.com/specialistvlad/dotgrid/internal/selector"
)

// Canonicalize merges, in document order, every block whose selectors apply
// to os under ev. A failing predicate evaluation aborts the whole document.
func Canonicalize(doc *Document, os selector.OS, ev selector.Evaluator) (Capabilities, error) {
	var acc Capabilities
	for _, block := range doc.Blocks() {
		ok, err := block.Selectors.Applies(os, ev)
		if err != nil {
			return Capabilities{}, fmt.Errorf("selector %q: %w", block.Source, err)
		}
		if !ok {
			continue
		}
		acc = Merge(acc, block.Raw.Canonical())
	}
	return acc, nil
}
