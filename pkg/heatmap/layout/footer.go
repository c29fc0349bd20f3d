package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/geom"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/legend"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
	"github.com/matzehuels/funkyheatmap/pkg/svg"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// footer is phase D: enabled legends laid out left to right.
func (p *pass) footer() {
	o := p.in.Options
	p.foot = svg.Group().Class("fh-legends")

	x := o.Padding
	for i, l := range p.in.Legends {
		if !l.Enabled {
			continue
		}
		n := p.legendStrip(i, l).Translate(x, o.Padding)
		b := p.m.Measure(n)
		p.foot.Append(n)
		x = math.Max(x, b.MaxX) + o.RowHeight
	}

	box := p.m.Measure(p.foot)
	if box.IsEmpty() {
		return
	}
	p.geo.FooterWidth = box.MaxX + o.Padding
	p.geo.FooterHeight = box.MaxY + o.Padding
}

func (p *pass) legendStrip(idx int, l legend.Legend) *svg.Node {
	o := p.in.Options
	g := svg.Group().Class("fh-legend").Data("palette", l.Palette)
	g.Append(svg.Text(0, o.FontSize, l.Title, o.FontSize).Fill(o.Theme.TextColor).Set("font-weight", "bold"))

	top := o.FontSize + o.Padding
	if l.Geom == geom.Bar {
		p.gradientLegend(g, idx, l, top)
	} else {
		p.sampleLegend(g, l, top)
	}
	return g
}

// sampleLegend draws one sample cell per entry with its label below.
// Numeric samples sit edge to edge like a column strip; with inferred labels
// the strip is labelled at the tick fractions instead.
func (p *pass) sampleLegend(g *svg.Node, l legend.Legend, top float64) {
	o := p.in.Options
	labelSize := o.FontSize * 0.85
	labelY := top + o.RowHeight + labelSize

	x := 0.0
	for i, label := range l.Labels {
		value, colorValue := entry(l, i)
		width := 0.0
		if i < len(l.Size) {
			width = l.Size[i]
		}

		cellW := o.RowHeight
		n, err := geom.Render(value, colorValue, l.Encoding(width), p.style, p.pos)
		if err == nil && n != nil {
			sample := svg.Group(n).Translate(x, top)
			g.Append(sample)
			cellW = math.Max(cellW, p.m.Measure(sample).MaxX-x)
		}

		labelW := 0.0
		if label != "" && !l.Ticks {
			lx, anchor := x, "start"
			switch l.LabelAlign {
			case geom.AlignCenter:
				lx, anchor = x+cellW/2, "middle"
			case geom.AlignRight:
				lx, anchor = x+cellW, "end"
			}
			text := svg.Text(lx, labelY, label, labelSize).Align(anchor).Fill(o.Theme.TextColor)
			labelW = p.m.Measure(text).Width()
			g.Append(text)
		}

		if l.Geom.Numeric() {
			x += o.RowHeight
		} else {
			x += math.Max(cellW, labelW) + o.Padding
		}
	}

	if l.Ticks && len(l.Labels) > 1 {
		span := float64(len(l.Labels)-1) * o.RowHeight
		for _, t := range o.LegendTicks {
			tx := o.RowHeight/2 + t*span
			g.Append(svg.Text(tx, labelY, table.FormatNumber(t, 2), labelSize).
				Align("middle").Fill(o.Theme.TextColor).Class("fh-legend-tick"))
		}
	}
}

// entry returns the size and color inputs of legend entry i.
func entry(l legend.Legend, i int) (value, colorValue any) {
	var v any
	if i < len(l.Values) {
		v = l.Values[i]
	}
	switch {
	case l.Geom == geom.Pie:
		idx, ok := table.Number(v)
		if !ok || idx < 0 {
			idx = float64(i)
		}
		slices := make([]float64, int(idx)+1)
		slices[int(idx)] = 1
		return slices, nil
	case l.Geom.Numeric() && i < len(l.Size):
		return l.Size[i], v
	default:
		return v, v
	}
}

// gradientLegend draws a bar filled with the palette gradient and tick marks
// at the configured tick fractions.
func (p *pass) gradientLegend(g *svg.Node, idx int, l legend.Legend, top float64) {
	o := p.in.Options
	w := p.pos.GeomSize * column.DefaultBarWidth
	h := p.pos.GeomSize

	fill := palette.Fallback
	if l.Scale != nil {
		id := fmt.Sprintf("fh-legend-gradient-%d", idx)
		grad := svg.Element("linearGradient").ID(id)
		for _, t := range o.LegendTicks {
			grad.Append(svg.Element("stop").
				Set("offset", table.FormatNumber(t*100, 2)+"%").
				Set("stop-color", l.Scale.Color(t)))
		}
		g.Append(svg.Element("defs", grad))
		fill = "url(#" + id + ")"
	}
	g.Append(svg.Rect(0, top, w, h).Fill(fill).Stroke(o.Theme.StrokeColor).Set("stroke-width", "1"))

	labelSize := o.FontSize * 0.85
	for _, t := range o.LegendTicks {
		x := t * w
		g.Append(svg.Line(x, top+h, x, top+h+3).Stroke(o.Theme.StrokeColor))
		g.Append(svg.Text(x, top+h+3+labelSize, table.FormatNumber(t, 2), labelSize).
			Align("middle").Fill(o.Theme.TextColor).Class("fh-legend-tick"))
	}
}
