package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/funkyheatmap/pkg/svg"
)

// compose places header, body and footer and sizes the canvas. A footer
// wider than the body is right-justified while it fits the canvas, and
// widens the canvas otherwise.
func (p *pass) compose() *Result {
	geo := p.geo
	canvas := math.Max(geo.BodyWidth, geo.HeaderWidth)
	if geo.FooterWidth > geo.BodyWidth {
		if geo.FooterWidth <= canvas {
			geo.FooterX = canvas - geo.FooterWidth
		} else {
			canvas = geo.FooterWidth
		}
	}
	geo.FooterOffset = geo.HeaderHeight + geo.BodyHeight
	geo.Width = canvas
	geo.Height = geo.HeaderHeight + geo.BodyHeight + geo.FooterHeight

	root := svg.Element("svg").
		Set("xmlns", "http://www.w3.org/2000/svg").
		SetNum("width", geo.Width).
		SetNum("height", geo.Height).
		Set("viewBox", fmt.Sprintf("0 0 %s %s", svg.Num(geo.Width), svg.Num(geo.Height))).
		Set("font-family", "sans-serif").
		Class(strings.TrimSpace("funkyheatmap " + p.in.Class))
	if p.in.Style != "" {
		root.Set("style", p.in.Style)
	}

	p.head.Translate(0, geo.HeaderHeight)
	body := svg.Group(p.bands, p.columns).Class("fh-body").Translate(0, geo.HeaderHeight)
	p.foot.Translate(geo.FooterX, geo.FooterOffset)
	root.Append(p.head, body, p.foot)

	return &Result{Root: root, Geometry: geo}
}

// CellAt returns the table row and column under a canvas point.
func (g Geometry) CellAt(x, y float64, rowHeight float64) (row int, col string, ok bool) {
	by := y - g.HeaderHeight
	if by < 0 || by >= g.BodyHeight {
		return 0, "", false
	}
	row = -1
	for _, r := range g.Rows {
		if by >= r.Y && by < r.Y+rowHeight {
			row = r.Row
			break
		}
	}
	if row < 0 {
		return 0, "", false
	}
	// Later columns are drawn on top, so overlays win.
	for i := len(g.Columns) - 1; i >= 0; i-- {
		c := g.Columns[i]
		if x >= c.Offset && x < c.Offset+c.Width {
			return row, c.ID, true
		}
	}
	return 0, "", false
}
