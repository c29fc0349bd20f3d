// Package layout computes the pixel geometry of a heatmap.
//
// The true size of a rendered cell (text above all) depends on font metrics,
// so layout runs in two steps. [Prepare] renders every cell into an
// unattached surface. [Surface.Layout] then measures those cells with the
// host's [Measurer] and runs one full layout pass:
//
//	A  row bands, with an extra label row per row group
//	B  column placement from measured cell widths
//	C  header: column group bands and (possibly rotated) column labels
//	D  footer: one legend strip per enabled legend
//
// A pass never patches an earlier one; every call to Layout recomputes the
// whole [Geometry].
package layout

import (
	"context"
	"fmt"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/geom"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/group"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/legend"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
	"github.com/matzehuels/funkyheatmap/pkg/svg"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// Measurer returns the bounding box of an element in its parent's
// coordinates.
type Measurer interface {
	Measure(n *svg.Node) svg.Box
}

// Input is everything one layout pass draws.
type Input struct {
	Table        *table.Table
	Order        []int // display order of the table rows; nil keeps data order
	Columns      []*column.Column
	ColumnGroups []group.ColumnGroup
	Rows         group.Rows
	Legends      []legend.Legend
	Palettes     palette.Mapping
	Options      config.Options

	// Passed through to the root element.
	Class string
	Style string
}

// Geometry is the computed geometry of one pass. Body coordinates start at
// the top-left corner of the first row band.
type Geometry struct {
	Columns       []ColumnBox `json:"columns"`
	Rows          []RowBox    `json:"rows"`
	RowGroups     []GroupBox  `json:"row_groups,omitempty"`
	LabelsRotated bool        `json:"labels_rotated"`

	BodyWidth    float64 `json:"body_width"`
	BodyHeight   float64 `json:"body_height"`
	HeaderHeight float64 `json:"header_height"`
	HeaderWidth  float64 `json:"header_width"`
	FooterHeight float64 `json:"footer_height"`
	FooterWidth  float64 `json:"footer_width"`
	FooterOffset float64 `json:"footer_offset"`
	FooterX      float64 `json:"footer_x"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
}

// ColumnBox is the horizontal extent of one column.
type ColumnBox struct {
	ID      string    `json:"id"`
	Group   string    `json:"group,omitempty"`
	Geom    geom.Kind `json:"geom"`
	Offset  float64   `json:"offset"`
	Width   float64   `json:"width"`
	Overlay bool      `json:"overlay,omitempty"`
}

// RowBox is the vertical position of one data row.
type RowBox struct {
	Row int     `json:"row"` // index into the table
	Y   float64 `json:"y"`
}

// GroupBox is the label row of a row group.
type GroupBox struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Y     float64 `json:"y"`
}

// Result is a laid out heatmap.
type Result struct {
	Root     *svg.Node
	Geometry Geometry
}

// Surface holds rendered but unmeasured cells.
type Surface struct {
	in    Input
	pos   config.Position
	style geom.Style
	order []int
	cells [][]cell // per column, in display order
}

type cell struct {
	row   int
	node  *svg.Node
	label *svg.Node
	hover string
}

// Prepare renders every cell of every column without positioning them.
// Missing values produce no cell.
func Prepare(in Input) (*Surface, error) {
	s := &Surface{
		in:    in,
		pos:   in.Options.Position(),
		style: geom.Style{Theme: in.Options.Theme, FontSize: in.Options.FontSize},
		order: in.Order,
	}
	if s.order == nil {
		s.order = make([]int, in.Table.Len())
		for i := range s.order {
			s.order[i] = i
		}
	}

	s.cells = make([][]cell, len(in.Columns))
	for ci, c := range in.Columns {
		enc := c.Encoding()
		for _, ri := range s.order {
			row := in.Table.Row(ri)
			value := c.GetValue(row)
			if c.Geom == geom.Text && c.Label != "" {
				value = c.GetLabel(row, in.Options.Precision)
			}
			n, err := geom.Render(value, c.GetColorValue(row), enc, s.style, s.pos)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", c.ID, err)
			}
			if n == nil {
				continue
			}
			cl := cell{row: ri, node: n, hover: c.GetHoverText(row, in.Options.Precision)}
			if c.Geom != geom.Text && c.Label != "" {
				if text := c.GetLabel(row, in.Options.Precision); text != "" {
					cl.label = svg.Text(s.pos.RowHeight/2, s.pos.RowHeight/2, text, in.Options.FontSize*0.75).
						Align("middle").Middle().Fill(in.Options.Theme.TextColor).Class("fh-cell-label")
				}
			}
			s.cells[ci] = append(s.cells[ci], cl)
		}
	}
	return s, nil
}

// Layout measures the surface and runs phases A to D.
func (s *Surface) Layout(ctx context.Context, m Measurer) (*Result, error) {
	p := &pass{Surface: s, m: m}

	p.rowBands()
	if err := p.placeColumns(ctx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.header()
	p.footer()
	return p.compose(), nil
}

// Run prepares and lays out in one call.
func Run(ctx context.Context, in Input, m Measurer) (*Result, error) {
	s, err := Prepare(in)
	if err != nil {
		return nil, err
	}
	return s.Layout(ctx, m)
}

// pass is the mutable state of one layout pass.
type pass struct {
	*Surface
	m   Measurer
	geo Geometry

	bands   *svg.Node
	columns *svg.Node
	head    *svg.Node
	foot    *svg.Node
	rowY    map[int]float64
}
