package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/interact"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/layout"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/measure"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/sink"
)

// =============================================================================
// Build
// =============================================================================

// Build validates the heatmap spec against the data. Configuration errors are
// returned as-is; see [ferrors.IsConfiguration].
func Build(in *Input, opts Options) (*heatmap.Heatmap, error) {
	return heatmap.Build(in.Table, in.Spec,
		heatmap.WithLogger(opts.Logger),
		heatmap.WithOverrides(opts.Overrides))
}

// =============================================================================
// Layout
// =============================================================================

// NewMeasurer returns the text measurer named by name.
func NewMeasurer(name string) (layout.Measurer, error) {
	switch name {
	case MeasurerFixed:
		return measure.NewFixed(), nil
	case MeasurerFont, "":
		f, err := measure.NewFont()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, ValidateMeasurer(name)
	}
}

// Layout applies the requested sorts in order and runs one layout pass.
// It returns the pass and the resulting display order.
func Layout(ctx context.Context, h *heatmap.Heatmap, opts Options) (*layout.Result, []int, error) {
	m, err := NewMeasurer(opts.Measurer)
	if err != nil {
		return nil, nil, err
	}
	c := interact.New(h, m)
	for _, k := range opts.Sort {
		if err := c.SortTo(k.Column, k.State); err != nil {
			return nil, nil, fmt.Errorf("sort %s: %w", k.Column, err)
		}
	}
	res, err := c.Render(ctx)
	if err != nil {
		return nil, nil, err
	}
	return res, c.Order(), nil
}

// =============================================================================
// Render
// =============================================================================

// Render writes one artifact per requested format.
func Render(ctx context.Context, res *layout.Result, h *heatmap.Heatmap, order []int, opts Options) (map[string][]byte, error) {
	var svgOpts []sink.SVGOption
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(res, append(svgOpts, sink.WithXMLHeader())...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, res, sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, res)
		case FormatJSON:
			data, err = sink.RenderJSON(res, sink.WithJSONHeatmap(h), sink.WithJSONOrder(order))
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
