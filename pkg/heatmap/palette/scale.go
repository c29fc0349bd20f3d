package palette

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// Fallback is returned by scales for values they cannot place.
const Fallback = "#cccccc"

// Scale maps a value to a CSS color.
type Scale interface {
	Color(v any) string
}

// Linear is a piecewise-linear numeric color scale. Its domain [Min, Max] is
// split into len(colors)-1 equal segments; values outside are clamped.
type Linear struct {
	Min, Max float64
	stops    []colorful.Color
	raw      []string
}

// NewLinear returns a linear scale over [min, max]. Colors that fail to parse
// are replaced with the fallback color.
func NewLinear(min, max float64, colors []string) *Linear {
	l := &Linear{Min: min, Max: max, raw: colors}
	for _, c := range colors {
		l.stops = append(l.stops, parseColor(c))
	}
	return l
}

// Color implements Scale. Non-numeric and NaN values map to the fallback color.
func (l *Linear) Color(v any) string {
	f, ok := table.Number(v)
	if !ok || math.IsNaN(f) || len(l.stops) == 0 {
		return Fallback
	}
	return l.At(f)
}

// At returns the color for a numeric value.
func (l *Linear) At(v float64) string {
	switch len(l.stops) {
	case 0:
		return Fallback
	case 1:
		return l.raw[0]
	}
	t := 0.0
	if l.Max > l.Min {
		t = (v - l.Min) / (l.Max - l.Min)
	}
	t = math.Max(0, math.Min(1, t))

	seg := t * float64(len(l.stops)-1)
	i := int(math.Floor(seg))
	if i >= len(l.stops)-1 {
		return l.raw[len(l.raw)-1]
	}
	frac := seg - float64(i)
	if frac == 0 {
		return l.stops[i].Hex()
	}
	return l.stops[i].BlendRgb(l.stops[i+1], frac).Clamped().Hex()
}

// Middle returns the color at the center of the domain.
func (l *Linear) Middle() string {
	return l.At(l.Min + (l.Max-l.Min)/2)
}

// Ordinal maps categories to colors. Named categories keep their color; any
// other category takes the next unused color in order of first use, cycling
// when the range is exhausted.
type Ordinal struct {
	colors []string
	index  map[string]int
	next   int
}

// NewOrdinal returns an ordinal scale. names may be nil. Positional indices
// 0..len(colors)-1 always resolve to their color unless a name shadows them.
func NewOrdinal(colors, names []string) *Ordinal {
	o := &Ordinal{colors: colors, index: map[string]int{}}
	for i, n := range names {
		if i < len(colors) {
			o.index[n] = i
		}
	}
	for i := range colors {
		if _, taken := o.index[strconv.Itoa(i)]; !taken {
			o.index[strconv.Itoa(i)] = i
		}
	}
	o.next = min(len(names), len(colors))
	return o
}

// Color implements Scale.
func (o *Ordinal) Color(v any) string {
	if len(o.colors) == 0 {
		return Fallback
	}
	key := fmt.Sprint(v)
	i, ok := o.index[key]
	if !ok {
		i = o.next
		o.index[key] = i
		o.next++
	}
	return o.colors[i%len(o.colors)]
}

// Colors returns the scale range.
func (o *Ordinal) Colors() []string { return o.colors }

// Middle returns the middle color of a palette.
func Middle(colors []string) string {
	if len(colors) == 0 {
		return Fallback
	}
	return colors[len(colors)/2]
}

func parseColor(s string) colorful.Color {
	if c, err := colorful.Hex(s); err == nil {
		return c
	}
	if hex, ok := namedColors[s]; ok {
		c, _ := colorful.Hex(hex)
		return c
	}
	c, _ := colorful.Hex(Fallback)
	return c
}

var namedColors = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"grey":      "#808080",
	"gray":      "#808080",
	"lightgray": "#d3d3d3",
	"lightgrey": "#d3d3d3",
	"red":       "#ff0000",
	"green":     "#008000",
	"blue":      "#0000ff",
	"orange":    "#ffa500",
	"yellow":    "#ffff00",
	"purple":    "#800080",
}
