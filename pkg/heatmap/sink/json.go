package sink

import (
	"encoding/json"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/geom"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	heatmap *heatmap.Heatmap
	order   []int
}

// WithJSONHeatmap adds column, legend and diagnostic metadata.
func WithJSONHeatmap(h *heatmap.Heatmap) JSONOption {
	return func(r *jsonRenderer) { r.heatmap = h }
}

// WithJSONOrder records the display order the geometry was laid out with.
func WithJSONOrder(order []int) JSONOption {
	return func(r *jsonRenderer) { r.order = order }
}

type jsonOutput struct {
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Order       []int            `json:"order,omitempty"`
	Geometry    layout.Geometry  `json:"geometry"`
	Columns     []jsonColumn     `json:"columns,omitempty"`
	Legends     []jsonLegend     `json:"legends,omitempty"`
	Diagnostics []jsonDiagnostic `json:"diagnostics,omitempty"`
}

type jsonColumn struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Geom        geom.Kind        `json:"geom"`
	Group       string           `json:"group,omitempty"`
	Palette     string           `json:"palette"`
	Numeric     bool             `json:"numeric"`
	Min         *float64         `json:"min,omitempty"`
	Max         *float64         `json:"max,omitempty"`
	ColorByRank bool             `json:"color_by_rank,omitempty"`
	Sort        column.SortState `json:"sort,omitempty"`
}

type jsonLegend struct {
	Title   string    `json:"title"`
	Palette string    `json:"palette"`
	Geom    geom.Kind `json:"geom"`
	Labels  []string  `json:"labels,omitempty"`
	Enabled bool      `json:"enabled"`
}

type jsonDiagnostic struct {
	Code    ferrors.Code `json:"code"`
	Subject string       `json:"subject,omitempty"`
	Message string       `json:"message"`
}

// RenderJSON exports the geometry of a layout pass as pretty-printed JSON.
func RenderJSON(res *layout.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:    res.Geometry.Width,
		Height:   res.Geometry.Height,
		Order:    r.order,
		Geometry: res.Geometry,
	}
	if h := r.heatmap; h != nil {
		for _, c := range h.Columns {
			jc := jsonColumn{
				ID: c.ID, Name: c.Name, Geom: c.Geom, Group: c.Group, Palette: c.PaletteName,
				Numeric: c.Numeric, ColorByRank: c.ColorByRank, Sort: c.SortState(),
			}
			if c.Numeric {
				jc.Min, jc.Max = &c.Min, &c.Max
			}
			out.Columns = append(out.Columns, jc)
		}
		for _, l := range h.Legends {
			out.Legends = append(out.Legends, jsonLegend{
				Title: l.Title, Palette: l.Palette, Geom: l.Geom, Labels: l.Labels, Enabled: l.Enabled,
			})
		}
		for _, d := range h.Diagnostics().Items() {
			out.Diagnostics = append(out.Diagnostics, jsonDiagnostic{Code: d.Code, Subject: d.Subject, Message: d.Message})
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
