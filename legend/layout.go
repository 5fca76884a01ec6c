package legend

import "math"

// Layout search bounds. Item height is scanned coarsely from max to min;
// font and symbol sizes interpolate linearly against that range.
const (
	maxColumns     = 4
	maxItemHeight  = 28.0
	minItemHeight  = 14.0
	itemHeightStep = 2.0
	minFontSize    = 8.0
	maxFontSize    = 13.0
	minSymbolSize  = 10.0
	maxSymbolSize  = 18.0

	layoutPadding = 8.0
	columnGap     = 12.0
	subItemIndent = 12.0
	symbolGap     = 6.0

	// TitleFontSize is the legend title size when ShowTitle is set.
	TitleFontSize = 14.0
	titleGap      = 4.0
)

// MeasureFunc measures rendered text width in pixels at a font size. Layout
// takes it as a parameter so the search stays pure and testable.
type MeasureFunc func(text string, fontSize float64, bold bool) float64

// Layout is a computed legend arrangement. It is derived, never stored:
// identical inputs always produce an identical Layout.
type Layout struct {
	NumColumns     int
	ColumnWidth    float64
	ItemHeight     float64
	FontSize       float64
	SymbolSize     float64
	ItemsPerColumn int
	Padding        float64
	ColumnGap      float64
	SubItemIndent  float64

	// Overflow marks layouts where labels may not fit their column: either
	// a single-column layout (no narrower alternative exists) or the
	// minimum-size fallback.
	Overflow bool
}

// Compute chooses the smallest number of columns that holds all items, and
// within that column count the largest item size whose labels all fit their
// column without truncation.
//
// Fewer columns always win over larger items, so the legend reads as a
// compact block first. Single-column layouts are accepted even when labels
// overflow. When no column/size pair is fully feasible, the layout falls
// back to minimum item size with however many columns are needed, which may
// exceed the visual maximum of four.
func Compute(boxW, boxH float64, items []Item, showTitle bool, measure MeasureFunc) Layout {
	n := len(items)
	availW := boxW - 2*layoutPadding
	availH := boxH - 2*layoutPadding
	if showTitle {
		availH -= TitleFontSize + titleGap
	}
	if n == 0 || availW <= 0 || availH <= 0 {
		return fallbackLayout(n, availW, availH)
	}

	// Minimum viable column width, from labels measured at the smallest font.
	minColW := 0.0
	for _, it := range items {
		w := itemWidth(it, minFontSize, minSymbolSize, measure)
		if w > minColW {
			minColW = w
		}
	}

	colLimit := int((availW + columnGap) / (minColW + columnGap))
	if colLimit > maxColumns {
		colLimit = maxColumns
	}
	if colLimit < 1 {
		colLimit = 1
	}

	for cols := 1; cols <= colLimit; cols++ {
		colW := (availW - columnGap*float64(cols-1)) / float64(cols)
		for ih := maxItemHeight; ih >= minItemHeight; ih -= itemHeightStep {
			per := int(availH / ih)
			if per < 1 || per*cols < n {
				continue
			}
			t := (ih - minItemHeight) / (maxItemHeight - minItemHeight)
			fs := minFontSize + t*(maxFontSize-minFontSize)
			sym := minSymbolSize + t*(maxSymbolSize-minSymbolSize)

			fits := labelsFit(items, fs, sym, colW, measure)
			if !fits && cols > 1 {
				continue
			}
			return Layout{
				NumColumns:     cols,
				ColumnWidth:    colW,
				ItemHeight:     ih,
				FontSize:       fs,
				SymbolSize:     sym,
				ItemsPerColumn: per,
				Padding:        layoutPadding,
				ColumnGap:      columnGap,
				SubItemIndent:  subItemIndent,
				Overflow:       !fits,
			}
		}
	}

	return fallbackLayout(n, availW, availH)
}

// fallbackLayout accepts label overflow: minimum item size, as many columns
// as it takes.
func fallbackLayout(n int, availW, availH float64) Layout {
	per := int(availH / minItemHeight)
	if per < 1 {
		per = 1
	}
	cols := 1
	if n > 0 {
		cols = (n + per - 1) / per
	}
	colW := (availW - columnGap*float64(cols-1)) / float64(cols)
	if colW < 1 {
		colW = 1
	}
	return Layout{
		NumColumns:     cols,
		ColumnWidth:    colW,
		ItemHeight:     minItemHeight,
		FontSize:       minFontSize,
		SymbolSize:     minSymbolSize,
		ItemsPerColumn: per,
		Padding:        layoutPadding,
		ColumnGap:      columnGap,
		SubItemIndent:  subItemIndent,
		Overflow:       true,
	}
}

// itemWidth is the horizontal room an item needs: indent, swatch, gap, label.
func itemWidth(it Item, fontSize, symbolSize float64, measure MeasureFunc) float64 {
	w := measure(it.Label, fontSize, it.IsHeader)
	if it.IsHeader {
		return w
	}
	if it.IsSubItem {
		w += subItemIndent
	}
	return w + symbolSize + symbolGap
}

// labelsFit verifies every label, measured at the derived font size, fits its
// column.
func labelsFit(items []Item, fontSize, symbolSize, colW float64, measure MeasureFunc) bool {
	for _, it := range items {
		if itemWidth(it, fontSize, symbolSize, measure) > colW {
			return false
		}
	}
	return true
}

// Columns assigns item indexes to columns in order. A header landing in the
// last slot of a column with its first sub-item on the next column is pushed
// to that next column when the layout has slack to absorb the wasted slot.
func Columns(items []Item, l Layout) [][]int {
	n := len(items)
	cols := make([][]int, 0, l.NumColumns)
	if n == 0 || l.ItemsPerColumn < 1 {
		return cols
	}
	slack := l.NumColumns*l.ItemsPerColumn - n

	cur := make([]int, 0, l.ItemsPerColumn)
	for i := 0; i < n; i++ {
		if l.ItemsPerColumn >= 2 && len(cur) == l.ItemsPerColumn-1 && slack > 0 &&
			items[i].IsHeader && i+1 < n && items[i+1].IsSubItem {
			slack--
			cols = append(cols, cur)
			cur = make([]int, 0, l.ItemsPerColumn)
		}
		cur = append(cur, i)
		if len(cur) == l.ItemsPerColumn {
			cols = append(cols, cur)
			cur = make([]int, 0, l.ItemsPerColumn)
		}
	}
	if len(cur) > 0 {
		cols = append(cols, cur)
	}
	return cols
}

// MaxLabelWidth reports the widest label at the layout's font size. Exposed
// for tests verifying the no-truncation invariant.
func MaxLabelWidth(items []Item, l Layout, measure MeasureFunc) float64 {
	w := 0.0
	for _, it := range items {
		w = math.Max(w, itemWidth(it, l.FontSize, l.SymbolSize, measure))
	}
	return w
}
