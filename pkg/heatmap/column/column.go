// Package column builds the typed column model of a heatmap.
//
// A [Column] describes one data field: how it is classified (numeric or
// categorical), which geom draws it, where its size, color, label and hover
// text come from, and the statistics its scales are built on.
//
// Classification follows the first non-missing value: numbers and strings
// that fully parse as numbers make a column numeric, unless the geom is text
// or pie. Defaults then cascade:
//
//	name    ← id
//	geom    ← funkyrect if numeric, text otherwise
//	palette ← categorical for pie, numerical for numeric geoms, none otherwise
//	width   ← 4 for bar
//
// Image columns must set a width.
package column

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/geom"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// SortState is the sort direction of a column. The zero value is unsorted.
type SortState string

const (
	Unsorted   SortState = ""
	Descending SortState = "desc"
	Ascending  SortState = "asc"
)

// DefaultBarWidth is the bar length, in cell sizes, used when none is set.
const DefaultBarWidth = 4

// Column is one resolved column.
type Column struct {
	ID          string
	Name        string
	Geom        geom.Kind
	Group       string
	Numeric     bool
	Categorical bool

	// Data holds the raw values in row order; Values the coerced numbers
	// (NaN where missing) for numeric columns.
	Data   []any
	Values []float64

	IDSize      string
	IDColor     string
	Label       string
	IDHoverText string

	ColorByRank bool
	ScaleColumn bool
	Overlay     bool

	Width       float64
	PaletteName string
	Palette     palette.Scale
	Align       string
	FontSize    float64
	Legend      bool
	DrawGuide   bool

	// Statistics of the size scale.
	Min, Max, Range float64
	// Domain of the color scale.
	ColorMin, ColorMax float64

	ranks     []float64 // sorted unique values, set when ColorByRank
	sortState SortState
}

// New classifies a column and resolves its defaults. data is the column's
// value sequence and fields the names of all fields in the dataset, against
// which accessor ids are checked.
func New(s Spec, data []any, fields []string) (*Column, error) {
	if s.ID == "" {
		return nil, ferrors.New(ferrors.ErrCodeMissingID, "column spec is missing an id")
	}
	if !slices.Contains(fields, s.ID) {
		return nil, ferrors.New(ferrors.ErrCodeUnknownField, "column %q is not a field of the data", s.ID)
	}
	for _, acc := range []struct{ name, field string }{
		{"id_size", s.IDSize}, {"id_color", s.IDColor}, {"label", s.Label}, {"id_hover_text", s.IDHoverText},
	} {
		if acc.field != "" && !slices.Contains(fields, acc.field) {
			return nil, ferrors.New(ferrors.ErrCodeUnknownField,
				"column %q: %s refers to field %q, which is not in the data", s.ID, acc.name, acc.field)
		}
	}

	c := &Column{
		ID:          s.ID,
		Name:        s.Name,
		Group:       s.Group,
		Data:        data,
		IDSize:      s.IDSize,
		IDColor:     s.IDColor,
		Label:       s.Label,
		IDHoverText: s.IDHoverText,
		Overlay:     s.Overlay,
		PaletteName: s.Palette,
		Align:       s.Options.Align,
		FontSize:    s.Options.FontSize,
		Legend:      s.Options.Legend == nil || *s.Options.Legend,
		DrawGuide:   s.Options.DrawGuide == nil || *s.Options.DrawGuide,
	}

	var kind geom.Kind
	explicitGeom := s.Geom != ""
	if explicitGeom {
		k, err := geom.ParseKind(s.Geom)
		if err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeUnknownGeom, err, "column %q", s.ID)
		}
		kind = k
	}

	first := firstValue(data)
	c.Numeric = table.IsNumeric(first) && !(explicitGeom && kind.Categorical())
	c.Categorical = !c.Numeric

	if c.Name == "" {
		c.Name = c.ID
	}
	if s.Width != nil {
		c.Width = *s.Width
	} else if s.Options.Width != nil {
		c.Width = *s.Options.Width
	}
	if c.PaletteName == "" {
		c.PaletteName = s.Options.Palette
	}

	switch {
	case explicitGeom:
		c.Geom = kind
	case c.Numeric:
		c.Geom = geom.Funkyrect
	default:
		c.Geom = geom.Text
	}

	if c.PaletteName == "" {
		switch {
		case c.Geom == geom.Pie:
			c.PaletteName = palette.RefCategorical
		case c.Numeric:
			c.PaletteName = palette.RefNumerical
		default:
			c.PaletteName = palette.None
		}
	}

	hasWidth := s.Width != nil || s.Options.Width != nil
	if !hasWidth && c.Geom == geom.Bar {
		c.Width = DefaultBarWidth
	}
	if c.Geom == geom.Image && !hasWidth {
		return nil, ferrors.New(ferrors.ErrCodeMissingWidth, "column %q: please specify width for geom=image", s.ID)
	}

	if c.Numeric {
		c.Values = make([]float64, len(data))
		for i, v := range data {
			c.Values[i] = table.NumberOrNaN(v)
		}
	}
	return c, nil
}

func firstValue(data []any) any {
	for _, v := range data {
		if v != nil {
			return v
		}
	}
	return nil
}

// CalculateStats computes the size-scale extent and, when colorByRank is set,
// the tie-collapsed ranks. colorData is the color accessor's data, or nil;
// ranks are taken over colorData when it is given.
func (c *Column) CalculateStats(scaleColumn, colorByRank bool, colorData []any) {
	c.ScaleColumn = scaleColumn
	c.ColorByRank = colorByRank && c.Numeric
	c.Min, c.Max = 0, 1
	c.ColorMin, c.ColorMax = 0, 1
	c.ranks = nil
	if !c.Numeric {
		return
	}

	if scaleColumn {
		if lo, hi, ok := extent(c.Values); ok {
			c.Min, c.Max = lo, hi
		}
	}
	c.Range = c.Max - c.Min
	c.ColorMin, c.ColorMax = c.Min, c.Max

	switch {
	case c.ColorByRank && colorData != nil:
		c.ranks = uniqueSorted(numbers(colorData))
	case c.ColorByRank:
		c.ranks = uniqueSorted(c.Values)
	case colorData != nil && scaleColumn:
		if lo, hi, ok := extent(numbers(colorData)); ok {
			c.ColorMin, c.ColorMax = lo, hi
		}
	}
}

func numbers(data []any) []float64 {
	vals := make([]float64, len(data))
	for i, v := range data {
		vals[i] = table.NumberOrNaN(v)
	}
	return vals
}

func extent(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo, hi, ok = math.Min(lo, v), math.Max(hi, v), true
	}
	return lo, hi, ok
}

func uniqueSorted(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Rank returns the normalized tie-collapsed rank of v: with k distinct values
// the ranks are 0, 1/(k-1), ..., 1. ok is false when ranks are not computed
// or v is not one of the column's values.
func (c *Column) Rank(v float64) (float64, bool) {
	if c.ranks == nil || math.IsNaN(v) {
		return 0, false
	}
	i, found := slices.BinarySearch(c.ranks, v)
	if !found {
		return 0, false
	}
	if len(c.ranks) == 1 {
		return 0, true
	}
	return float64(i) / float64(len(c.ranks)-1), true
}

// AssignPalette resolves the column palette against the mapping. A column
// with palette "none" keeps a nil scale.
func (c *Column) AssignPalette(m palette.Mapping) error {
	c.Palette = nil
	if c.PaletteName == palette.None {
		return nil
	}
	res, err := palette.Resolve(c.PaletteName, m)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeUnknownPalette, err, "column %q", c.ID)
	}
	if c.Numeric && !c.Geom.Categorical() {
		lo, hi := c.ColorMin, c.ColorMax
		if c.ColorByRank {
			lo, hi = 0, 1
		}
		c.Palette = palette.NewLinear(lo, hi, res.Colors)
		return nil
	}
	c.Palette = palette.NewOrdinal(res.Colors, res.Names)
	return nil
}

// Value returns the column's own value in row, coerced when numeric.
func (c *Column) Value(row table.Record) any {
	v := row[c.ID]
	if c.Numeric {
		return table.NumberOrNaN(v)
	}
	return v
}

// GetValue returns what the geom sizes by: the size accessor field if set,
// else the column value.
func (c *Column) GetValue(row table.Record) any {
	if c.IDSize != "" {
		return row[c.IDSize]
	}
	return c.Value(row)
}

// GetColorValue returns what the palette colors by. When coloring by rank
// this is the normalized rank of the color field (the color accessor if set,
// else the column itself); otherwise the color accessor field or the value.
func (c *Column) GetColorValue(row table.Record) any {
	if c.ColorByRank {
		field := c.ID
		if c.IDColor != "" {
			field = c.IDColor
		}
		if r, ok := c.Rank(table.NumberOrNaN(row[field])); ok {
			return r
		}
		return nil
	}
	if c.IDColor != "" {
		return row[c.IDColor]
	}
	return c.Value(row)
}

// GetLabel returns the label accessor text, or "" without a label accessor.
func (c *Column) GetLabel(row table.Record, precision int) string {
	if c.Label == "" {
		return ""
	}
	return table.Format(row[c.Label], precision)
}

// GetHoverText returns the tooltip text of a cell. Text and image cells only
// have hover text through an explicit accessor.
func (c *Column) GetHoverText(row table.Record, precision int) string {
	if c.IDHoverText != "" {
		return table.Format(row[c.IDHoverText], precision)
	}
	if c.Geom == geom.Text || c.Geom == geom.Image {
		return ""
	}
	v := c.GetValue(row)
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return ""
	}
	if vals, ok := v.([]any); ok {
		parts := make([]string, len(vals))
		for i, x := range vals {
			parts[i] = table.Format(x, precision)
		}
		return strings.Join(parts, ", ")
	}
	return table.Format(v, precision)
}

// Encoding returns the geom encoding of this column.
func (c *Column) Encoding() geom.Encoding {
	return geom.Encoding{
		Kind:     c.Geom,
		Min:      c.Min,
		Max:      c.Max,
		Width:    c.Width,
		Palette:  c.Palette,
		Align:    c.Align,
		FontSize: c.FontSize,
	}
}

// SortState returns the current sort direction.
func (c *Column) SortState() SortState { return c.sortState }

// ResetSort clears the sort direction.
func (c *Column) ResetSort() { c.sortState = Unsorted }

// Comparator orders two rows.
type Comparator func(a, b table.Record) int

// Sort advances the sort direction (desc, then alternating asc and desc) and
// returns the matching comparator.
func (c *Column) Sort() Comparator {
	if c.sortState == Descending {
		c.sortState = Ascending
	} else {
		c.sortState = Descending
	}
	return c.Comparator(c.sortState)
}

// Comparator returns the comparator for a direction. Missing values sort last
// in both directions.
func (c *Column) Comparator(dir SortState) Comparator {
	desc := dir == Descending
	if c.Numeric {
		return func(a, b table.Record) int {
			x, y := table.NumberOrNaN(a[c.ID]), table.NumberOrNaN(b[c.ID])
			switch xn, yn := math.IsNaN(x), math.IsNaN(y); {
			case xn && yn:
				return 0
			case xn:
				return 1
			case yn:
				return -1
			}
			if desc {
				return cmp.Compare(y, x)
			}
			return cmp.Compare(x, y)
		}
	}
	return func(a, b table.Record) int {
		x, y := a[c.ID], b[c.ID]
		switch {
		case x == nil && y == nil:
			return 0
		case x == nil:
			return 1
		case y == nil:
			return -1
		}
		xs, ys := fmt.Sprint(x), fmt.Sprint(y)
		if desc {
			return strings.Compare(ys, xs)
		}
		return strings.Compare(xs, ys)
	}
}
