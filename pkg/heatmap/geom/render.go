package geom

import (
	"fmt"
	"math"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/svg"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// Class marks every cell element.
const Class = "fh-geom"

// Style carries the non-palette colors and the inherited font size.
type Style struct {
	Theme    config.Theme
	FontSize float64
}

// Render draws one cell. It returns a nil node when the value cannot be
// drawn (a missing number, an empty pie), which the caller skips.
func Render(value, colorValue any, e Encoding, s Style, p config.Position) (*svg.Node, error) {
	var n *svg.Node
	switch e.Kind {
	case Text:
		n = text(value, e, s, p)
	case Bar:
		n = bar(value, colorValue, e, s, p)
	case Circle:
		n = circle(value, colorValue, e, s, p)
	case Rect:
		n = rect(value, colorValue, e, s, p)
	case Funkyrect:
		n = funkyrect(value, colorValue, e, s, p)
	case Pie:
		n = pie(value, e, s, p)
	case Image:
		n = image(value, e, p)
	default:
		return nil, ferrors.New(ferrors.ErrCodeUnknownGeom, "geom %d is not supported", int(e.Kind))
	}
	if n != nil {
		n.Class(Class)
	}
	return n, nil
}

func outlined(n *svg.Node, fill string, s Style) *svg.Node {
	return n.Stroke(s.Theme.StrokeColor).Set("stroke-width", "1").Fill(fill)
}

func text(value any, e Encoding, s Style, p config.Position) *svg.Node {
	if value == nil {
		return nil
	}
	label := fmt.Sprint(value)
	fill := s.Theme.TextColor
	if e.Palette != nil {
		fill = e.Palette.Color(value)
	}

	x, anchor := 0.0, "start"
	switch e.Align {
	case AlignCenter, "middle":
		x, anchor = p.RowHeight/2, "middle"
	case AlignRight, "end":
		x, anchor = p.RowHeight-p.Padding, "end"
	}

	size := s.FontSize
	if e.FontSize > 0 {
		size = e.FontSize
	}
	return svg.Text(x, p.RowHeight/2, label, size).Middle().Align(anchor).Fill(fill)
}

func bar(value, colorValue any, e Encoding, s Style, p config.Position) *svg.Node {
	v, ok := table.Number(value)
	if !ok {
		return nil
	}
	width := e.Scale(v) * e.Width * p.GeomSize
	if width == 0 {
		width = p.MinGeomSize
	}
	return outlined(svg.Rect(p.GeomPaddingX, p.GeomPadding, width, p.GeomSize), e.fill(colorValue), s)
}

func circle(value, colorValue any, e Encoding, s Style, p config.Position) *svg.Node {
	v, ok := table.Number(value)
	if !ok {
		return nil
	}
	r := e.Scale(v) * p.GeomSize / 2
	if r == 0 {
		r = p.MinGeomSize
	}
	return outlined(svg.Circle(p.RowHeight/2, p.RowHeight/2, r), e.fill(colorValue), s)
}

func rect(value, colorValue any, e Encoding, s Style, p config.Position) *svg.Node {
	if _, ok := table.Number(value); !ok {
		return nil
	}
	return outlined(svg.Rect(p.GeomPaddingX, p.GeomPadding, p.GeomSize, p.GeomSize), e.fill(colorValue), s)
}

func funkyrect(value, colorValue any, e Encoding, s Style, p config.Position) *svg.Node {
	v, ok := table.Number(value)
	if !ok {
		return nil
	}
	size, square := FunkyShape(e.Scale(v), p)
	fill := e.fill(colorValue)
	if !square {
		return outlined(svg.Circle(p.RowHeight/2, p.RowHeight/2, size), fill, s)
	}
	return outlined(svg.RoundedRect(p.GeomPaddingX, p.GeomPadding, p.GeomSize, p.GeomSize, size), fill, s)
}

func image(value any, e Encoding, p config.Position) *svg.Node {
	href, ok := value.(string)
	if !ok || href == "" {
		return nil
	}
	return svg.Image(href, 0, p.GeomPadding, e.Width, p.GeomSize).Set("preserveAspectRatio", "xMidYMid")
}

func clampNonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
