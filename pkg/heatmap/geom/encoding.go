package geom

import (
	"math"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
)

// Alignment of text inside its cell.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Encoding is everything a renderer needs to know about the column (or
// legend) it draws for.
type Encoding struct {
	Kind     Kind
	Min, Max float64       // domain of the size scale
	Width    float64       // bar: maximum length in cell sizes; image: pixel width
	Palette  palette.Scale // nil draws without color mapping
	Align    string        // text only
	FontSize float64       // text only; 0 inherits the global size
}

// Scale maps v linearly from [Min, Max] to [0, 1], clamped. A degenerate
// domain maps everything to 0.5.
func (e Encoding) Scale(v float64) float64 {
	if e.Max == e.Min {
		return 0.5
	}
	s := (v - e.Min) / (e.Max - e.Min)
	return math.Max(0, math.Min(1, s))
}

func (e Encoding) fill(colorValue any) string {
	if e.Palette == nil {
		return palette.Fallback
	}
	return e.Palette.Color(colorValue)
}

// FunkyShape returns the funkyrect glyph for a scaled value in [0, 1].
//
// Below the midpoint the scaled value is remapped to [0, 0.5] and the glyph is
// a circle of the returned radius. From the midpoint on it is remapped to
// [0.5, 1] and the glyph is a square of side GeomSize with the returned corner
// radius. Both branches equal GeomSize/2 at the midpoint, where the rounded
// square is exactly the circle.
func FunkyShape(scaled float64, p config.Position) (radius float64, square bool) {
	mid := p.FunkyMidpoint
	if scaled < mid {
		v := 0.5 * scaled / mid
		radius = (0.1 + 0.8*v) * p.GeomSize
		if radius <= 0 {
			radius = p.MinGeomSize
		}
		return radius, false
	}
	v := 1.0
	if mid < 1 {
		v = 0.5 + 0.5*(scaled-mid)/(1-mid)
	}
	return (0.9 - 0.8*v) * p.GeomSize, true
}
