package dot

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/specialistvlad/dotgrid/internal/selector"
)

// Block is one selector entry of a document.
type Block struct {
	// Source is the selector text as written.
	Source    string
	Selectors selector.Selectors
	Raw       RawCapabilities
}

// Document is an ordered list of blocks keyed by their selector text. The
// order is the merge order.
type Document struct {
	blocks *orderedmap.OrderedMap[string, Block]
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{blocks: orderedmap.New[string, Block]()}
}

// Add appends b, or replaces the block with the same source in place.
func (d *Document) Add(b Block) {
	d.blocks.Set(b.Source, b)
}

// Len returns the number of blocks.
func (d *Document) Len() int {
	return d.blocks.Len()
}

// Blocks lists the blocks in document order.
func (d *Document) Blocks() []Block {
	out := make([]Block, 0, d.blocks.Len())
	for pair := d.blocks.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
