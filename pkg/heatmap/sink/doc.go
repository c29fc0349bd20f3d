// Package sink writes laid out heatmaps in their output formats.
//
//   - SVG: the document, optionally with row highlighting and sort events
//   - JSON: geometry and column metadata for external tools
//   - PDF and PNG: converted from SVG with rsvg-convert
//
// Basic usage:
//
//	res, _ := h.Layout(ctx, measurer, order)
//	svg := sink.RenderSVG(res, sink.WithInteraction())
//	png, err := sink.RenderPNG(ctx, res, sink.WithScale(2))
//
// With [WithInteraction], clicking a column label dispatches a
// "funkyheatmap:sort" event carrying the column id on the root element. The
// host page decides what a sort does; the serve command answers it with a
// relayout.
package sink
