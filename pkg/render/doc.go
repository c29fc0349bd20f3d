// Package render converts rendered SVG documents to other formats.
//
// [ToPDF] and [ToPNG] shell out to the rsvg-convert tool from librsvg:
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// Install librsvg with:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [Available] reports whether the tool is on PATH, so callers can reject
// PNG and PDF output before doing any work.
package render
