package legend

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromLayersSimple(t *testing.T) {
	layers := []Layer{
		{
			Title: "Parcels",
			Renderer: Renderer{
				Simple: &SimpleRenderer{Symbol: SymbolDef{Type: "fill", Color: RGBA{200, 200, 160, 255}, Outline: RGBA{0, 0, 0, 255}}},
			},
		},
	}
	items := FromLayers(layers)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	it := items[0]
	if it.Label != "Parcels" || it.IsHeader || it.IsSubItem {
		t.Fatalf("unexpected item %+v", it)
	}
	if it.Symbol == nil || it.Symbol.Kind != SymbolFill {
		t.Fatalf("unexpected symbol %+v", it.Symbol)
	}
}

func TestFromLayersUniqueValueHeaderAndChildren(t *testing.T) {
	layers := []Layer{
		{
			Title: "Zoning",
			Renderer: Renderer{
				UniqueValue: &UniqueValueRenderer{
					Field: "ZONE",
					Classes: []ValueClass{
						{Label: "Residential", Symbol: SymbolDef{Type: "fill", Color: RGBA{255, 255, 0, 255}}},
						{Label: "Commercial", Symbol: SymbolDef{Type: "fill", Color: RGBA{255, 0, 0, 255}}},
					},
				},
			},
		},
		{
			Title: "Streams",
			Renderer: Renderer{
				Simple: &SimpleRenderer{Symbol: SymbolDef{Type: "line", Color: RGBA{0, 0, 255, 255}}},
			},
		},
	}
	items := FromLayers(layers)

	var got []struct {
		Label			string
		Header, Sub, Line	bool
	}
	for _, it := range items {
		got = append(got, struct {
			Label			string
			Header, Sub, Line	bool
		}{it.Label, it.IsHeader, it.IsSubItem, it.Symbol != nil && it.Symbol.Kind == SymbolLine})
	}
	want := []struct {
		Label			string
		Header, Sub, Line	bool
	}{
		{"Zoning", true, false, false},
		{"Residential", false, true, false},
		{"Commercial", false, true, false},
		{"Streams", false, false, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flattened items mismatch (-want +got):\n%s", diff)
	}
}

func TestFromLayersClassBreaks(t *testing.T) {
	layers := []Layer{
		{
			Title: "Flood Depth",
			Renderer: Renderer{
				ClassBreaks: &ClassBreaksRenderer{
					Field: "DEPTH",
					Breaks: []ValueClass{
						{Label: "0 - 1 ft", Symbol: SymbolDef{Type: "fill", Color: RGBA{200, 220, 255, 255}}},
						{Label: "1 - 3 ft", Symbol: SymbolDef{Type: "fill", Color: RGBA{120, 160, 255, 255}}},
						{Label: "> 3 ft", Symbol: SymbolDef{Type: "fill", Color: RGBA{40, 80, 200, 255}}},
					},
				},
			},
		},
	}
	items := FromLayers(layers)
	if len(items) != 4 {
		t.Fatalf("got %d items, want header + 3 breaks", len(items))
	}
	if !items[0].IsHeader {
		t.Fatal("first item must be the layer header")
	}
	for i, it := range items[1:] {
		if !it.IsSubItem || it.Symbol == nil {
			t.Fatalf("break %d is not a swatched sub-item: %+v", i, it)
		}
	}
}
