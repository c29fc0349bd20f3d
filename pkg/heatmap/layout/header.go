package layout

import (
	"math"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/group"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
	"github.com/matzehuels/funkyheatmap/pkg/svg"
)

const (
	arrowDown = "▼"
	arrowUp   = "▲"
)

// header is phase C. Header coordinates put y=0 at the top of the body, so
// everything is drawn at negative y and the group is shifted down by the
// final header height.
func (p *pass) header() {
	o := p.in.Options
	p.head = svg.Group().Class("fh-header")

	rotated := p.rotation()
	p.geo.LabelsRotated = rotated

	labels := svg.Empty()
	for ci, c := range p.in.Columns {
		box := p.geo.Columns[ci]
		if box.Overlay {
			continue
		}
		n := p.columnLabel(c, box, rotated)
		labels = labels.Union(p.m.Measure(n))
		p.head.Append(n)
	}

	base := -o.Padding
	if !labels.IsEmpty() {
		base = math.Min(labels.MinY, 0) - o.Padding
	}
	p.groupBands(base)

	box := p.m.Measure(p.head)
	if !box.IsEmpty() {
		p.geo.HeaderHeight = math.Max(0, -box.MinY) + o.Padding
		p.geo.HeaderWidth = box.MaxX + o.Padding
	}
}

// rotation decides label rotation for the whole pass. In auto mode the scan
// stops at the first label wider than its column, and that label rotates
// every label.
func (p *pass) rotation() bool {
	o := p.in.Options
	switch o.LabelRotation {
	case config.RotateAlways:
		return true
	case config.RotateNever:
		return false
	}
	for ci, c := range p.in.Columns {
		box := p.geo.Columns[ci]
		if box.Overlay {
			continue
		}
		if p.m.Measure(svg.Text(0, 0, c.Name, o.FontSize)).Width() > box.Width {
			return true
		}
	}
	return false
}

func (p *pass) columnLabel(c *column.Column, box ColumnBox, rotated bool) *svg.Node {
	o := p.in.Options
	text := svg.Text(0, 0, c.Name, o.FontSize).Fill(o.Theme.HeaderColor)
	n := svg.Group(text).Translate(box.Offset+box.Width/2, -o.Padding).
		Class("fh-col-label").Data("col", c.ID).Set("cursor", "pointer")
	if rotated {
		n.RotateBy(o.LabelAngle)
	} else {
		text.Align("middle")
	}

	if state := c.SortState(); state != column.Unsorted {
		w := p.m.Measure(text).Width()
		x := w/2 + 2
		if rotated {
			x = w + 2
		}
		arrow := arrowDown
		if state == column.Ascending {
			arrow = arrowUp
		}
		n.Append(svg.Text(x, 0, arrow, o.FontSize*0.75).Fill(o.Theme.HeaderColor).Class("fh-sort-indicator"))
	}
	return n
}

// groupBands draws one band per run of adjacent columns sharing a group at
// each label level, stacked upwards from base.
func (p *pass) groupBands(base float64) {
	if len(p.in.ColumnGroups) == 0 {
		return
	}
	o := p.in.Options

	var boxes []ColumnBox
	var groups []group.ColumnGroup
	for _, box := range p.geo.Columns {
		if box.Overlay {
			continue
		}
		g, _ := group.Find(p.in.ColumnGroups, box.Group)
		boxes = append(boxes, box)
		groups = append(groups, g)
	}

	for level := 1; level <= 3; level++ {
		keys := make([]string, len(groups))
		found := false
		for i, g := range groups {
			levels := g.Levels()
			if len(levels) < level || levels[level-1] == "" {
				continue
			}
			found = true
			keys[i] = levels[level-1]
			if level == 1 {
				keys[i] = g.Group
			}
		}
		if !found {
			return
		}

		y := base - float64(level)*o.RowHeight
		for _, run := range group.Runs(keys) {
			g := groups[run.Start]
			label := g.Levels()[level-1]

			x0 := boxes[run.Start].Offset
			x1 := boxes[run.End-1].Offset + boxes[run.End-1].Width
			need := p.m.Measure(svg.Text(0, 0, label, o.FontSize)).Width() + 2*o.Padding
			if need > x1-x0 {
				grow := (need - (x1 - x0)) / 2
				x0, x1 = x0-grow, x1+grow
			}
			// A band wider than the columns left of it starts at the canvas edge.
			if x0 < 0 {
				x0, x1 = 0, x1-x0
			}
			text := svg.Text((x0+x1)/2, y+o.RowHeight/2, label, o.FontSize).
				Align("middle").Middle().Fill(o.Theme.HeaderColor)

			band := svg.Group().Class("fh-col-group").Data("group", g.Group)
			if color, ok := p.groupColor(g); ok {
				band.Append(svg.Rect(x0, y+1, x1-x0, o.RowHeight-2).Fill(color))
			} else {
				band.Append(svg.Line(x0, y+o.RowHeight-1, x1, y+o.RowHeight-1).Stroke(o.Theme.StrokeColor))
			}
			band.Append(text)
			p.head.Append(band)
		}
	}
}

func (p *pass) groupColor(g group.ColumnGroup) (string, bool) {
	if g.Palette == "" || g.Palette == palette.None {
		return "", false
	}
	res, err := palette.Resolve(g.Palette, p.in.Palettes)
	if err != nil {
		return "", false
	}
	return palette.Middle(res.Colors), true
}
