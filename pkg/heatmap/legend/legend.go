// Package legend makes sure every palette in use has a renderable legend.
//
// Legends missing for a palette used by some column are appended with the
// palette name as title. Missing geoms are copied from the first column using
// the palette, and labels, values and sizes are inferred per geom family.
// Legends whose fields cannot be inferred are disabled with a warning rather
// than failing the render.
package legend

import (
	"slices"
	"strings"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/geom"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
)

// DefaultLabels are the labels of numeric legends without explicit labels.
var DefaultLabels = []string{"0", "", "0.2", "", "0.4", "", "0.6", "", "0.8", "", "1"}

// Legend is a resolved legend.
type Legend struct {
	Title      string
	Palette    string
	Geom       geom.Kind
	Labels     []string
	Values     []any
	Size       []float64
	LabelAlign string
	Enabled    bool
	// Ticks is set when labels were inferred for a numeric legend; the
	// strip is then labelled at the configured tick fractions instead.
	Ticks bool

	Scale palette.Scale // nil for palette "none"
}

// Encoding returns the geom encoding legend samples are drawn with. Numeric
// samples use a fixed [0, 1] scale.
func (l Legend) Encoding(width float64) geom.Encoding {
	return geom.Encoding{Kind: l.Geom, Min: 0, Max: 1, Width: width, Palette: l.Scale, Align: l.LabelAlign}
}

// Usage pairs a palette with the geom of a column drawn with it.
type Usage struct {
	Palette string
	Geom    geom.Kind
}

// Synthesize completes the legend list. usages lists the palette of every
// column in column order, excluding "none".
func Synthesize(specs []Spec, usages []Usage, m palette.Mapping, diag *ferrors.Diagnostics) ([]Legend, error) {
	if specs == nil {
		diag.Info("No legends provided, will infer automatically")
	}
	specs = slices.Clone(specs)

	var used []string
	for _, u := range usages {
		if u.Palette != "" && u.Palette != palette.None && !slices.Contains(used, u.Palette) {
			used = append(used, u.Palette)
		}
	}
	var missing []string
	for _, p := range used {
		if !slices.ContainsFunc(specs, func(s Spec) bool { return s.Palette == p }) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		diag.Info("These palettes are missing in legends, adding legends for them: %s", strings.Join(missing, ", "))
		for _, p := range missing {
			specs = append(specs, Spec{Title: p, Palette: p})
		}
	}

	out := make([]Legend, 0, len(specs))
	for _, s := range specs {
		l, err := resolve(s, usages, m, diag)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func resolve(s Spec, usages []Usage, m palette.Mapping, diag *ferrors.Diagnostics) (Legend, error) {
	l := Legend{
		Title:   s.Title,
		Palette: s.Palette,
		Labels:  s.Labels,
		Values:  s.Values,
		Enabled: s.Enabled == nil || *s.Enabled,
	}
	if l.Title == "" {
		l.Title = l.Palette
	}

	if s.Geom == "" {
		i := slices.IndexFunc(usages, func(u Usage) bool { return u.Palette == s.Palette })
		if i < 0 {
			return Legend{}, ferrors.New(ferrors.ErrCodeInvalidLegend,
				"legend %q did not specify geom and no column uses palette %q", l.Title, s.Palette)
		}
		diag.Info("Legend `%s` did not specify geom, copying from column info", l.Title)
		l.Geom = usages[i].Geom
	} else {
		k, err := geom.ParseKind(s.Geom)
		if err != nil {
			return Legend{}, ferrors.Wrap(ferrors.ErrCodeUnknownGeom, err, "legend %q", l.Title)
		}
		l.Geom = k
	}

	var res palette.Resolved
	if l.Palette != "" && l.Palette != palette.None {
		r, err := palette.Resolve(l.Palette, m)
		if err != nil {
			return Legend{}, ferrors.Wrap(ferrors.ErrCodeUnknownPalette, err, "legend %q", l.Title)
		}
		res = r
		if l.Geom.Categorical() {
			l.Scale = palette.NewOrdinal(res.Colors, res.Names)
		} else {
			l.Scale = palette.NewLinear(0, 1, res.Colors)
		}
	}

	if l.Labels == nil {
		diag.Debug("Legend `%s` did not specify labels, inferring from column info", l.Title)
		switch {
		case l.Geom == geom.Pie:
			if res.Names == nil {
				diag.Warn(ferrors.WarnLegendDisabled, l.Title,
					"cannot infer labels for legend `%s`, please provide color names in palette. Disabling this legend", l.Title)
				l.Enabled = false
			}
			l.Labels = res.Names
		case l.Geom.Numeric():
			l.Labels = slices.Clone(DefaultLabels)
			l.Ticks = true
		default:
			diag.Warn(ferrors.WarnLegendDisabled, l.Title,
				"cannot infer labels for legend `%s` of type %s, please provide labels. Disabling this legend", l.Title, l.Geom)
			l.Enabled = false
		}
	}

	l.LabelAlign = labelAlign(s, l, diag)

	if !s.Size.IsSet() {
		switch l.Geom {
		case geom.Circle, geom.Funkyrect:
			s.Size = Size{List: ramp(len(l.Labels))}
		case geom.Rect, geom.Bar:
			one := 1.0
			s.Size = Size{Scalar: &one}
		case geom.Image:
			if l.Enabled {
				return Legend{}, ferrors.New(ferrors.ErrCodeInvalidLegend, "please specify size (width) for image legend %q", l.Title)
			}
		}
	}

	if l.Values == nil {
		switch {
		case l.Geom.Numeric():
			for _, v := range ramp(len(l.Labels)) {
				l.Values = append(l.Values, v)
			}
		case l.Geom == geom.Pie:
			for i := range l.Labels {
				l.Values = append(l.Values, i)
			}
		case l.Enabled:
			diag.Warn(ferrors.WarnLegendDisabled, l.Title,
				"cannot infer values for legend `%s` of type %s, please provide values. Disabling this legend", l.Title, l.Geom)
			l.Enabled = false
		}
	}

	l.Size = s.Size.Expand(len(l.Labels))

	if l.Enabled {
		if len(l.Values) != len(l.Labels) {
			return Legend{}, ferrors.New(ferrors.ErrCodeInvalidLegend,
				"legend %q has %d labels but %d values", l.Title, len(l.Labels), len(l.Values))
		}
		if l.Size != nil && len(l.Size) != len(l.Labels) {
			return Legend{}, ferrors.New(ferrors.ErrCodeInvalidLegend,
				"legend %q has %d labels but %d sizes", l.Title, len(l.Labels), len(l.Size))
		}
	}
	return l, nil
}

func labelAlign(s Spec, l Legend, diag *ferrors.Diagnostics) string {
	align := s.LabelAlign
	if s.LabelHjust != nil {
		switch *s.LabelHjust {
		case 0:
			align = geom.AlignLeft
		case 0.5:
			align = geom.AlignCenter
		case 1:
			align = geom.AlignRight
		default:
			diag.Warn(ferrors.WarnUnsupportedAlign, l.Title,
				"unsupported value for label_hjust: %v for legend `%s`. Only 0, 0.5, 1 are supported; using center", *s.LabelHjust, l.Title)
			return geom.AlignCenter
		}
		diag.Debug("Converting label_hjust=%v to label_align=%s for legend `%s`", *s.LabelHjust, align, l.Title)
	}
	if align == "" {
		switch l.Geom {
		case geom.Circle, geom.Rect, geom.Funkyrect:
			return geom.AlignCenter
		}
		return geom.AlignLeft
	}
	if align != geom.AlignLeft && align != geom.AlignCenter && align != geom.AlignRight {
		diag.Warn(ferrors.WarnUnsupportedAlign, l.Title,
			"unsupported value for label_align: %s for legend `%s`, ignoring. Only left, center, right are supported", align, l.Title)
		return geom.AlignCenter
	}
	return align
}

// ramp returns n evenly spaced values from 0 to 1.
func ramp(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{1}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	out[n-1] = 1
	return out
}
