package column

import (
	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// Build builds all columns of a heatmap. Without specs, every field becomes a
// column in data order. The global ScaleColumn and ColorByRank options apply
// to every column that does not override them.
func Build(t *table.Table, specs []Spec, opts config.Options, palettes palette.Mapping, diag *ferrors.Diagnostics) ([]*Column, error) {
	fields := t.Fields()
	if len(specs) == 0 {
		diag.Info("No column info specified, using all %d fields", len(fields))
		for _, f := range fields {
			specs = append(specs, Spec{ID: f})
		}
	}

	cols := make([]*Column, 0, len(specs))
	for _, s := range specs {
		c, err := New(s, t.Column(s.ID), fields)
		if err != nil {
			return nil, err
		}
		c.Align = checkAlign(c, diag)

		var colorData []any
		if c.IDColor != "" {
			colorData = t.Column(c.IDColor)
		}
		c.CalculateStats(
			config.Override(opts.ScaleColumn, s.ScaleColumn),
			config.Override(opts.ColorByRank, s.ColorByRank),
			colorData,
		)
		if err := c.AssignPalette(palettes); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func checkAlign(c *Column, diag *ferrors.Diagnostics) string {
	switch c.Align {
	case "", "left", "center", "right":
		return c.Align
	case "start":
		return "left"
	case "middle":
		return "center"
	case "end":
		return "right"
	}
	diag.Warn(ferrors.WarnUnsupportedAlign, c.ID, "unsupported align %q, only left, center, right are supported; using left", c.Align)
	return "left"
}

// Palettes returns the distinct palette names used by the columns, in column
// order, excluding "none" and columns that opted out of legends.
func Palettes(cols []*Column) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range cols {
		if c.PaletteName == palette.None || !c.Legend || seen[c.PaletteName] {
			continue
		}
		seen[c.PaletteName] = true
		out = append(out, c.PaletteName)
	}
	return out
}
