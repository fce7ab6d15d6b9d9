package format

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// SelectorBlock is the HCL block type whose single label is a selector.
const SelectorBlock = "selector"

// decodeHCL reads native HCL syntax. Top-level attributes and unlabeled blocks
// become entries named after themselves; `selector "<expr>" { ... }` blocks
// become entries keyed by their label. Expressions are evaluated without
// variables or functions.
func decodeHCL(text []byte, filename string) ([]Entry, error) {
	file, diags := hclsyntax.ParseConfig(text, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, hclError(filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &Error{Format: HCL, Filename: filename, Err: fmt.Errorf("unexpected body type %T", file.Body)}
	}

	type positioned struct {
		Entry
		offset int
		rng    hcl.Range
	}
	var items []positioned

	for name, attr := range body.Attributes {
		value, diags := attrValue(attr)
		if diags.HasErrors() {
			return nil, hclError(filename, diags)
		}
		items = append(items, positioned{Entry{name, value}, attr.SrcRange.Start.Byte, attr.SrcRange})
	}

	for _, block := range body.Blocks {
		key := block.Type
		switch {
		case block.Type == SelectorBlock && len(block.Labels) == 1:
			key = block.Labels[0]
		case len(block.Labels) > 0:
			return nil, hclError(filename, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Unexpected block labels",
				Detail:   fmt.Sprintf("Only %q blocks take a label, and exactly one.", SelectorBlock),
				Subject:  block.LabelRanges[0].Ptr(),
			}})
		}
		value, diags := bodyValue(block.Body)
		if diags.HasErrors() {
			return nil, hclError(filename, diags)
		}
		items = append(items, positioned{Entry{key, value}, block.TypeRange.Start.Byte, block.TypeRange})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].offset < items[j].offset })

	entries := make([]Entry, 0, len(items))
	seen := map[string]bool{}
	for _, item := range items {
		if seen[item.Key] {
			return nil, hclError(filename, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Duplicate entry",
				Detail:   fmt.Sprintf("The key %q is defined more than once.", item.Key),
				Subject:  item.rng.Ptr(),
			}})
		}
		seen[item.Key] = true
		entries = append(entries, item.Entry)
	}
	return entries, nil
}

func attrValue(attr *hclsyntax.Attribute) (any, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	native, err := ctyToNative(val)
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported value",
			Detail:   err.Error(),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	return native, nil
}

// bodyValue converts a block body into a map; nested unlabeled blocks become
// nested maps.
func bodyValue(body *hclsyntax.Body) (map[string]any, hcl.Diagnostics) {
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))
	for name, attr := range body.Attributes {
		value, diags := attrValue(attr)
		if diags.HasErrors() {
			return nil, diags
		}
		out[name] = value
	}
	for _, block := range body.Blocks {
		if len(block.Labels) > 0 {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Unexpected block labels",
				Detail:   "Nested blocks cannot be labeled.",
				Subject:  block.LabelRanges[0].Ptr(),
			}}
		}
		if _, dup := out[block.Type]; dup {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Duplicate entry",
				Detail:   fmt.Sprintf("The key %q is defined more than once.", block.Type),
				Subject:  block.TypeRange.Ptr(),
			}}
		}
		value, diags := bodyValue(block.Body)
		if diags.HasErrors() {
			return nil, diags
		}
		out[block.Type] = value
	}
	return out, nil
}

func hclError(filename string, diags hcl.Diagnostics) *Error {
	e := &Error{Format: HCL, Filename: filename, Err: diags}
	for _, d := range diags {
		if d.Subject != nil {
			e.Line, e.Column = d.Subject.Start.Line, d.Subject.Start.Column
			break
		}
	}
	return e
}

// ctyToNative converts a cty value into plain Go values.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		if bf := v.AsBigFloat(); bf.IsInt() {
			var i int64
			if err := gocty.FromCtyValue(v, &i); err == nil {
				return i, nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := []any{}
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := map[string]any{}
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
