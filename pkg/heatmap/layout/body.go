package layout

import (
	"context"
	"math"
	"strconv"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap/geom"
	"github.com/matzehuels/funkyheatmap/pkg/svg"
)

// rowBands is phase A. Band alternation restarts in every row group, and an
// active row grouping reserves one extra row per group for its label.
func (p *pass) rowBands() {
	o := p.in.Options
	p.bands = svg.Group().Class("fh-rows")
	p.rowY = make(map[int]float64, len(p.order))

	y := 0.0
	for _, bucket := range p.in.Rows.Buckets(p.order) {
		if p.in.Rows.Active {
			key := p.in.Rows.Keys[bucket[0]]
			label := p.in.Rows.Label(key)
			p.geo.RowGroups = append(p.geo.RowGroups, GroupBox{Key: key, Label: label, Y: y})
			p.bands.Append(svg.Text(o.Padding, y+o.RowHeight/2, label, o.FontSize).
				Middle().Fill(o.Theme.TextColor).Set("font-weight", "bold").Class("fh-row-group"))
			y += o.RowHeight
		}
		for j, ri := range bucket {
			fill := o.Theme.EvenBackground
			if j%2 == 1 {
				fill = o.Theme.OddBackground
			}
			p.bands.Append(svg.Rect(0, y, 0, o.RowHeight).Fill(fill).Class("fh-row").Data("row", strconv.Itoa(ri)))
			p.geo.Rows = append(p.geo.Rows, RowBox{Row: ri, Y: y})
			p.rowY[ri] = y
			y += o.RowHeight
		}
	}
	p.geo.BodyHeight = y
}

// placeColumns is phase B.
func (p *pass) placeColumns(ctx context.Context) error {
	o := p.in.Options
	p.columns = svg.Group().Class("fh-columns")

	offset := 0.0
	prevGroup := ""
	for ci, c := range p.in.Columns {
		if err := ctx.Err(); err != nil {
			return err
		}

		overlay := c.Overlay && ci > 0
		if !overlay {
			offset += o.ColumnSpacing * o.RowHeight
			if ci > 0 && c.Group != prevGroup {
				offset += o.GroupSpacing * o.RowHeight
			}
		}

		g := svg.Group().Class("fh-column").Data("col", c.ID)
		content := svg.Empty()
		for _, cl := range p.cells[ci] {
			cellNode := svg.Group(cl.node, cl.label).Translate(0, p.rowY[cl.row]).
				Data("row", strconv.Itoa(cl.row)).Title(cl.hover)
			content = content.Union(p.m.Measure(cellNode))
			g.Append(cellNode)
		}

		var width, shift float64
		if !content.IsEmpty() {
			shift = -math.Min(0, content.MinX)
			width = content.MaxX + shift
		}
		if c.Geom == geom.Bar {
			width = p.pos.GeomPaddingX + p.pos.GeomSize*c.Width
			if c.DrawGuide {
				g.Append(svg.Line(width, 0, width, p.geo.BodyHeight).
					Stroke(o.Theme.GuideColor).Set("stroke-dasharray", "5 5").Set("stroke-width", "1").Class("fh-guide"))
			}
		}
		width = math.Max(width, o.RowHeight)

		if overlay {
			prev := p.geo.Columns[ci-1]
			g.Translate(prev.Offset+shift, 0)
			p.geo.Columns = append(p.geo.Columns, ColumnBox{
				ID: c.ID, Group: prev.Group, Geom: c.Geom, Offset: prev.Offset, Width: prev.Width, Overlay: true,
			})
		} else {
			g.Translate(offset+shift, 0)
			p.geo.Columns = append(p.geo.Columns, ColumnBox{ID: c.ID, Group: c.Group, Geom: c.Geom, Offset: offset, Width: width})
			offset += width
			prevGroup = c.Group
		}
		p.columns.Append(g)
	}
	p.geo.BodyWidth = offset + o.Padding

	for _, band := range p.bands.Children {
		if band.Tag == "rect" {
			band.SetNum("width", p.geo.BodyWidth)
			band.Extent.MaxX = band.Extent.MinX + p.geo.BodyWidth
		}
	}
	return nil
}
