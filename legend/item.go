// Package legend flattens a map's layer renderers into a flat list of legend
// items, lays the items out into a bounded box, and draws them.
//
// Layer renderer definitions arrive as a tagged union (simple, unique value,
// class breaks); the kind is decided once at this ingestion boundary and
// never re-sniffed during rendering.
package legend

import (
	"image/color"
)

// SymbolKind discriminates legend swatch shapes.
type SymbolKind int

const (
	SymbolFill SymbolKind = iota
	SymbolLine
)

// Symbol describes one legend swatch.
type Symbol struct {
	Kind            SymbolKind
	Color           color.Color
	Outline         color.Color
	TransparentFill bool // outline-only fill symbol
}

// Item is one entry in the map's symbol key. Ordering is significant: a
// header followed by its sub-items must stay contiguous.
//
// Items are constructed fresh per export from the current legend data source
// and never persisted.
type Item struct {
	Label     string
	Symbol    *Symbol // nil for headers
	IsHeader  bool
	IsSubItem bool
}

// RGBA is a JSON-friendly [r, g, b, a] color.
type RGBA [4]uint8

// Color converts to the standard library color type.
func (c RGBA) Color() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// SymbolDef is a wire-format swatch definition.
type SymbolDef struct {
	Type            string `json:"type"` // "fill" or "line"
	Color           RGBA   `json:"color"`
	Outline         RGBA   `json:"outline"`
	TransparentFill bool   `json:"transparentFill,omitempty"`
}

// ValueClass is one class of a unique-value or class-breaks renderer.
type ValueClass struct {
	Label  string    `json:"label"`
	Symbol SymbolDef `json:"symbol"`
}

// SimpleRenderer draws every feature of a layer with one symbol.
type SimpleRenderer struct {
	Symbol SymbolDef `json:"symbol"`
}

// UniqueValueRenderer draws features keyed by a field's distinct values.
type UniqueValueRenderer struct {
	Field   string       `json:"field,omitempty"`
	Classes []ValueClass `json:"classes"`
}

// ClassBreaksRenderer draws features bucketed by numeric ranges.
type ClassBreaksRenderer struct {
	Field  string       `json:"field,omitempty"`
	Breaks []ValueClass `json:"breaks"`
}

// Renderer is the tagged union of renderer kinds. Exactly one field is
// non-nil.
type Renderer struct {
	Simple      *SimpleRenderer      `json:"simple,omitempty"`
	UniqueValue *UniqueValueRenderer `json:"uniqueValue,omitempty"`
	ClassBreaks *ClassBreaksRenderer `json:"classBreaks,omitempty"`
}

// Layer is one visible map layer as reported by the legend data source.
type Layer struct {
	Title    string   `json:"title"`
	Renderer Renderer `json:"renderer"`
}

func (d SymbolDef) symbol() *Symbol {
	s := &Symbol{
		Kind:            SymbolFill,
		Color:           d.Color.Color(),
		Outline:         d.Outline.Color(),
		TransparentFill: d.TransparentFill,
	}
	if d.Type == "line" {
		s.Kind = SymbolLine
	}
	return s
}

// FromLayers flattens visible layers into legend items. A simple renderer
// yields one plain item labeled with the layer title; unique-value and
// class-breaks renderers yield a header item followed by one sub-item per
// class, in class order.
func FromLayers(layers []Layer) []Item {
	var items []Item
	for _, layer := range layers {
		r := layer.Renderer
		switch {
		case r.Simple != nil:
			items = append(items, Item{
				Label:  layer.Title,
				Symbol: r.Simple.Symbol.symbol(),
			})
		case r.UniqueValue != nil:
			items = append(items, Item{Label: layer.Title, IsHeader: true})
			for _, cls := range r.UniqueValue.Classes {
				items = append(items, Item{
					Label:     cls.Label,
					Symbol:    cls.Symbol.symbol(),
					IsSubItem: true,
				})
			}
		case r.ClassBreaks != nil:
			items = append(items, Item{Label: layer.Title, IsHeader: true})
			for _, brk := range r.ClassBreaks.Breaks {
				items = append(items, Item{
					Label:     brk.Label,
					Symbol:    brk.Symbol.symbol(),
					IsSubItem: true,
				})
			}
		}
	}
	return items
}
