package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	spec        string   // spec file (toml, yaml or json); columns are inferred without one
	output      string   // output file (single format) or base path (multiple)
	formats     []string // svg, png, pdf, json
	sort        []string // column[:asc|desc], applied in order
	interactive bool     // embed the click-to-sort script in SVG output
	measurer    string   // font or fixed
	scale       float64  // PNG scale factor
	cache       cacheOpts
	refresh     bool // re-render even on a cache hit

	// Option overrides. Only flags the user set are applied.
	rowHeight     float64
	fontSize      float64
	precision     int
	labelRotation string
	scaleColumn   bool
	colorByRank   bool
	abcGroups     bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		measurer: pipeline.MeasurerFont,
		scale:    pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render [data]",
		Short: "Render a data table to SVG, PNG, PDF or JSON",
		Long: `Render a data table (csv, tsv, json, toml or yaml) as a funky heatmap.

Columns, groups, palettes and legends come from --spec. Without a spec every
field becomes a column with an inferred geom.`,
		Example: `  funkyheatmap render scores.csv --spec scores.toml
  funkyheatmap render scores.csv -f svg,png --sort accuracy --sort time:asc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			overrides, err := opts.overrides(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts, overrides)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.spec, "spec", "s", "", "heatmap spec file")
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	f.StringArrayVar(&opts.sort, "sort", nil, "sort by column, as column[:asc|desc] (repeatable)")
	f.BoolVar(&opts.interactive, "interactive", false, "embed click-to-sort script in SVG output")
	f.StringVar(&opts.measurer, "measurer", opts.measurer, "text measurer: font (default), fixed")
	f.Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	f.BoolVar(&opts.cache.noCache, "no-cache", false, "disable the artifact cache")
	f.StringVar(&opts.cache.redis, "redis", "", "use a redis artifact cache (host:port or redis:// URL)")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	f.Float64Var(&opts.rowHeight, "row-height", 0, "row height in pixels")
	f.Float64Var(&opts.fontSize, "font-size", 0, "font size in pixels")
	f.IntVar(&opts.precision, "precision", 0, "decimals in hover texts")
	f.StringVar(&opts.labelRotation, "label-rotation", "", "column label rotation: always (default), auto, never")
	f.BoolVar(&opts.scaleColumn, "scale-column", true, "min-max scale numeric columns")
	f.BoolVar(&opts.colorByRank, "color-by-rank", false, "color numeric columns by rank")
	f.BoolVar(&opts.abcGroups, "abc-groups", false, "prefix column group labels with a), b), ...")

	return cmd
}

// overrides collects the option flags the user set.
func (o *renderOpts) overrides(cmd *cobra.Command) (config.Overrides, error) {
	var ov config.Overrides
	changed := cmd.Flags().Changed

	if changed("row-height") {
		if o.rowHeight <= 0 {
			return ov, fmt.Errorf("--row-height must be positive")
		}
		ov.RowHeight = &o.rowHeight
	}
	if changed("font-size") {
		if o.fontSize <= 0 {
			return ov, fmt.Errorf("--font-size must be positive")
		}
		ov.FontSize = &o.fontSize
	}
	if changed("precision") {
		if o.precision < 0 {
			return ov, fmt.Errorf("--precision must not be negative")
		}
		ov.Precision = &o.precision
	}
	if changed("label-rotation") {
		r := config.Rotation(o.labelRotation)
		if !r.Valid() {
			return ov, fmt.Errorf("invalid label rotation: %s (must be 'auto', 'always' or 'never')", o.labelRotation)
		}
		ov.LabelRotation = &r
	}
	if changed("scale-column") {
		ov.ScaleColumn = &o.scaleColumn
	}
	if changed("color-by-rank") {
		ov.ColorByRank = &o.colorByRank
	}
	if changed("abc-groups") {
		ov.LabelGroupsAbc = &o.abcGroups
	}
	return ov, nil
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts, overrides config.Overrides) error {
	sort, err := parseSortKeys(opts.sort)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+input+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		DataPath:    input,
		SpecPath:    opts.spec,
		Overrides:   overrides,
		Sort:        sort,
		Measurer:    opts.measurer,
		Formats:     opts.formats,
		Interactive: opts.interactive,
		Scale:       opts.scale,
		Refresh:     opts.refresh,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if n := len(result.Heatmap.Diagnostics().Items()); n > 0 {
		printWarning("%d spec warnings, see log above", n)
	}

	paths, err := writeArtifacts(result.Artifacts, opts.formats, opts.output, input)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Rows, result.Stats.Columns, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	prog.done("Render complete")
	return nil
}
