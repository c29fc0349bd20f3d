// Package pkg provides the core libraries for funkyheatmap.
//
// # Overview
//
// Funkyheatmap renders a data table as a heatmap in which every column has
// its own glyph: circles, bars, rectangles that morph from circle to square
// ("funkyrects"), pies, text and images. Columns and rows can be grouped,
// colored by palette and explained by legends, and clicking a column label
// sorts the rows within their groups.
//
// # Architecture
//
// The typical data flow:
//
//	data table (csv, tsv, json, toml, yaml) + spec
//	         ↓
//	    [io] package (read table and spec)
//	         ↓
//	    [heatmap] package (validate spec, resolve columns, groups, palettes, legends)
//	         ↓
//	    [heatmap/layout] package (header, body and footer geometry)
//	         ↓
//	    [heatmap/sink] package (SVG, PNG, PDF, JSON)
//
// [pipeline] runs these stages for the CLI and the HTTP server, caching the
// rendered artifacts.
//
// # Quick Start
//
//	t, _ := io.ImportData("scores.csv")
//	spec, _ := io.LoadSpec("scores.toml")
//	h, _ := heatmap.Build(t, spec)
//	res, _ := h.Layout(ctx, measure.NewFixed(), nil)
//	svg := sink.RenderSVG(res)
//
// # Main Packages
//
// ## Heatmap
//
// [heatmap] - Spec validation and the resolved heatmap model.
//
//   - [heatmap/column]: Column classification, statistics and sorting
//   - [heatmap/geom]: Glyph kinds and their drawing
//   - [heatmap/group]: Column and row groups
//   - [heatmap/palette]: Built-in and user palettes, color scales
//   - [heatmap/legend]: Legend resolution and drawing
//   - [heatmap/config]: Layered layout options
//   - [heatmap/layout]: The layout pass
//   - [heatmap/measure]: Text measurement
//   - [heatmap/interact]: Click-to-sort and tooltips
//   - [heatmap/sink]: Output formats
//
// ## Data
//
// [table] - Row and column oriented tables and value coercion.
//
// [svg] - A small SVG node tree with bounding boxes.
//
// [io] - Reading data tables and specs.
//
// ## Infrastructure
//
// [pipeline] - Load, build, layout and render with an artifact cache.
//
// [cache] - Artifact caches: file, memory, redis and null.
//
// [session] - Viewer sessions for the HTTP server: memory, file and MongoDB.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [render] - SVG to PDF and PNG conversion.
//
// [errors] - Error codes and validation diagnostics.
//
// [heatmap]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap
// [heatmap/column]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap/column
// [heatmap/geom]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap/geom
// [heatmap/group]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap/group
// [heatmap/palette]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap/palette
// [heatmap/legend]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap/legend
// [heatmap/config]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap/config
// [heatmap/layout]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap/layout
// [heatmap/measure]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap/measure
// [heatmap/interact]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap/interact
// [heatmap/sink]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/heatmap/sink
// [table]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/table
// [svg]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/svg
// [io]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/funkyheatmap/pkg/errors
package pkg
