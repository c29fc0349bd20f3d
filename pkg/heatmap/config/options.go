// Package config resolves heatmap layout options.
//
// Options are resolved in layers, each applied as a pure function:
//
//	built-in defaults → user overrides → per-column overrides
//
// [Defaults] returns the built-in layer. [Overrides] holds optional user
// values (nil fields keep the lower layer) and [Resolve] folds any number of
// override layers onto a base without mutating it.
package config

import (
	"slices"
)

// Rotation selects how column labels in the header are rotated.
type Rotation string

const (
	// RotateAuto keeps labels horizontal until the first label overflows its
	// column; from then on every label in the pass is rotated.
	RotateAuto Rotation = "auto"
	// RotateAlways rotates every label by LabelAngle. It is the default.
	RotateAlways Rotation = "always"
	// RotateNever never rotates labels.
	RotateNever Rotation = "never"
)

// Valid reports whether r is a known rotation mode.
func (r Rotation) Valid() bool {
	return r == RotateAuto || r == RotateAlways || r == RotateNever
}

// Theme holds the colors used outside of palettes.
type Theme struct {
	TextColor      string `toml:"text_color,omitempty" json:"text_color,omitempty" yaml:"text_color,omitempty"`
	StrokeColor    string `toml:"stroke_color,omitempty" json:"stroke_color,omitempty" yaml:"stroke_color,omitempty"`
	EvenBackground string `toml:"even_background,omitempty" json:"even_background,omitempty" yaml:"even_background,omitempty"`
	OddBackground  string `toml:"odd_background,omitempty" json:"odd_background,omitempty" yaml:"odd_background,omitempty"`
	HeaderColor    string `toml:"header_color,omitempty" json:"header_color,omitempty" yaml:"header_color,omitempty"`
	GuideColor     string `toml:"guide_color,omitempty" json:"guide_color,omitempty" yaml:"guide_color,omitempty"`
}

// Options is the fully resolved configuration of one heatmap.
type Options struct {
	RowHeight      float64   // height of one row band in pixels
	Padding        float64   // outer padding and text inset in pixels
	GeomPadding    float64   // gap between a glyph and its cell border
	ColumnSpacing  float64   // gap before each column, as a fraction of RowHeight
	GroupSpacing   float64   // extra gap when the column group changes, as a fraction of RowHeight
	LabelAngle     float64   // rotation of column labels in degrees (negative is counter-clockwise)
	LabelRotation  Rotation  // when labels are rotated
	MinGeomSize    float64   // size substituted for glyphs that would otherwise be invisible
	FunkyMidpoint  float64   // fraction of the value range where funkyrect turns from circle to square
	FontSize       float64   // default font size in pixels
	LegendTicks    []float64 // tick fractions for gradient legends
	Precision      int       // decimals in hover texts
	LabelGroupsAbc bool      // prefix column group labels with a), b), ...
	ScaleColumn    bool      // min-max scale numeric columns
	ColorByRank    bool      // color numeric columns by tie-collapsed rank
	Theme          Theme
}

// Defaults returns the built-in option layer.
func Defaults() Options {
	return Options{
		RowHeight:     24,
		Padding:       5,
		GeomPadding:   1.5,
		ColumnSpacing: 0.1,
		GroupSpacing:  0.5,
		LabelAngle:    -30,
		LabelRotation: RotateAlways,
		MinGeomSize:   0.25,
		FunkyMidpoint: 0.8,
		FontSize:      12,
		LegendTicks:   []float64{0, 0.2, 0.4, 0.6, 0.8, 1},
		Precision:     2,
		ScaleColumn:   true,
		Theme: Theme{
			TextColor:      "black",
			StrokeColor:    "#555",
			EvenBackground: "#eee",
			OddBackground:  "white",
			HeaderColor:    "black",
			GuideColor:     "#555",
		},
	}
}

// Overrides is one optional configuration layer. Nil fields and empty theme
// colors leave the lower layer untouched.
type Overrides struct {
	RowHeight      *float64  `toml:"row_height,omitempty" json:"row_height,omitempty" yaml:"row_height,omitempty"`
	Padding        *float64  `toml:"padding,omitempty" json:"padding,omitempty" yaml:"padding,omitempty"`
	GeomPadding    *float64  `toml:"geom_padding,omitempty" json:"geom_padding,omitempty" yaml:"geom_padding,omitempty"`
	ColumnSpacing  *float64  `toml:"column_spacing,omitempty" json:"column_spacing,omitempty" yaml:"column_spacing,omitempty"`
	GroupSpacing   *float64  `toml:"group_spacing,omitempty" json:"group_spacing,omitempty" yaml:"group_spacing,omitempty"`
	LabelAngle     *float64  `toml:"label_angle,omitempty" json:"label_angle,omitempty" yaml:"label_angle,omitempty"`
	LabelRotation  *Rotation `toml:"label_rotation,omitempty" json:"label_rotation,omitempty" yaml:"label_rotation,omitempty"`
	MinGeomSize    *float64  `toml:"min_geom_size,omitempty" json:"min_geom_size,omitempty" yaml:"min_geom_size,omitempty"`
	FunkyMidpoint  *float64  `toml:"funky_midpoint,omitempty" json:"funky_midpoint,omitempty" yaml:"funky_midpoint,omitempty"`
	FontSize       *float64  `toml:"font_size,omitempty" json:"font_size,omitempty" yaml:"font_size,omitempty"`
	LegendTicks    []float64 `toml:"legend_ticks,omitempty" json:"legend_ticks,omitempty" yaml:"legend_ticks,omitempty"`
	Precision      *int      `toml:"precision,omitempty" json:"precision,omitempty" yaml:"precision,omitempty"`
	LabelGroupsAbc *bool     `toml:"label_groups_abc,omitempty" json:"label_groups_abc,omitempty" yaml:"label_groups_abc,omitempty"`
	ScaleColumn    *bool     `toml:"scale_column,omitempty" json:"scale_column,omitempty" yaml:"scale_column,omitempty"`
	ColorByRank    *bool     `toml:"color_by_rank,omitempty" json:"color_by_rank,omitempty" yaml:"color_by_rank,omitempty"`
	Theme          Theme     `toml:"theme,omitempty" json:"theme,omitempty" yaml:"theme,omitempty"`
}

// Resolve applies the override layers to base in order and returns the result.
// base is not modified.
func Resolve(base Options, layers ...Overrides) Options {
	out := base
	out.LegendTicks = slices.Clone(base.LegendTicks)
	for _, o := range layers {
		out = apply(out, o)
	}
	return out
}

func apply(o Options, l Overrides) Options {
	setF(&o.RowHeight, l.RowHeight)
	setF(&o.Padding, l.Padding)
	setF(&o.GeomPadding, l.GeomPadding)
	setF(&o.ColumnSpacing, l.ColumnSpacing)
	setF(&o.GroupSpacing, l.GroupSpacing)
	setF(&o.LabelAngle, l.LabelAngle)
	setF(&o.MinGeomSize, l.MinGeomSize)
	setF(&o.FunkyMidpoint, l.FunkyMidpoint)
	setF(&o.FontSize, l.FontSize)
	if l.LabelRotation != nil && l.LabelRotation.Valid() {
		o.LabelRotation = *l.LabelRotation
	}
	if len(l.LegendTicks) > 0 {
		o.LegendTicks = slices.Clone(l.LegendTicks)
	}
	if l.Precision != nil && *l.Precision >= 0 {
		o.Precision = *l.Precision
	}
	setB(&o.LabelGroupsAbc, l.LabelGroupsAbc)
	setB(&o.ScaleColumn, l.ScaleColumn)
	setB(&o.ColorByRank, l.ColorByRank)
	o.Theme = mergeTheme(o.Theme, l.Theme)
	return o
}

func setF(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setB(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func mergeTheme(base, over Theme) Theme {
	pick := func(b, o string) string {
		if o != "" {
			return o
		}
		return b
	}
	return Theme{
		TextColor:      pick(base.TextColor, over.TextColor),
		StrokeColor:    pick(base.StrokeColor, over.StrokeColor),
		EvenBackground: pick(base.EvenBackground, over.EvenBackground),
		OddBackground:  pick(base.OddBackground, over.OddBackground),
		HeaderColor:    pick(base.HeaderColor, over.HeaderColor),
		GuideColor:     pick(base.GuideColor, over.GuideColor),
	}
}

// Override resolves a per-column toggle: the column value wins when set.
func Override(global bool, column *bool) bool {
	if column != nil {
		return *column
	}
	return global
}

// Position holds the pixel measures every geom is drawn with. It is derived
// from Options and never configured directly.
type Position struct {
	RowHeight     float64
	Padding       float64
	GeomPadding   float64
	GeomPaddingX  float64
	GeomSize      float64
	MinGeomSize   float64
	FunkyMidpoint float64
}

// Position derives the geom position arguments.
func (o Options) Position() Position {
	return Position{
		RowHeight:     o.RowHeight,
		Padding:       o.Padding,
		GeomPadding:   o.GeomPadding,
		GeomPaddingX:  o.GeomPadding,
		GeomSize:      o.RowHeight - 2*o.GeomPadding,
		MinGeomSize:   o.MinGeomSize,
		FunkyMidpoint: o.FunkyMidpoint,
	}
}

// Ptr returns a pointer to v, for building Overrides literals.
func Ptr[T any](v T) *T { return &v }
