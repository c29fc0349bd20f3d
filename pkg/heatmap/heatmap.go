// Package heatmap builds funky heatmaps: tables drawn as rows of glyphs, one
// independently encoded column per field.
//
// [Build] validates a [Spec] against a table and resolves everything that
// does not depend on pixel measurement: column classification and
// statistics, palettes, column and row groups, and legends. It either
// returns a complete [Heatmap] or a configuration error; nothing partially
// built escapes.
//
// Laying out a heatmap needs a measurer for rendered text:
//
//	h, err := heatmap.Build(t, spec, heatmap.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	res, err := h.Layout(ctx, measure.NewFixed(), nil)
//	svg := res.Root.Bytes()
//
// Interactive sorting lives in package interact.
package heatmap

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/group"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/layout"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/legend"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// DefaultRowGroupField is the data field holding each row's group key.
const DefaultRowGroupField = "group"

// Spec describes a heatmap independently of its data.
type Spec struct {
	Columns       []column.Spec       `toml:"columns,omitempty" json:"columns,omitempty" yaml:"columns,omitempty"`
	ColumnGroups  []group.ColumnGroup `toml:"column_groups,omitempty" json:"column_groups,omitempty" yaml:"column_groups,omitempty"`
	RowGroups     []group.RowGroup    `toml:"row_groups,omitempty" json:"row_groups,omitempty" yaml:"row_groups,omitempty"`
	RowGroupField string              `toml:"row_group_field,omitempty" json:"row_group_field,omitempty" yaml:"row_group_field,omitempty"`
	Palettes      palette.Mapping     `toml:"palettes,omitempty" json:"palettes,omitempty" yaml:"palettes,omitempty"`
	Legends       []legend.Spec       `toml:"legends,omitempty" json:"legends,omitempty" yaml:"legends,omitempty"`
	Options       config.Overrides    `toml:"options,omitempty" json:"options,omitempty" yaml:"options,omitempty"`

	// Passed through to the root element.
	Class string `toml:"class,omitempty" json:"class,omitempty" yaml:"class,omitempty"`
	Style string `toml:"style,omitempty" json:"style,omitempty" yaml:"style,omitempty"`
}

// Heatmap is a validated heatmap ready for layout. Columns carry mutable
// sort state; everything else is fixed after Build.
type Heatmap struct {
	Table        *table.Table
	Columns      []*column.Column
	ColumnGroups []group.ColumnGroup
	Rows         group.Rows
	Legends      []legend.Legend
	Palettes     palette.Mapping
	Options      config.Options
	Class        string
	Style        string

	diag *ferrors.Diagnostics
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	logger    *log.Logger
	overrides []config.Overrides
	diag      *ferrors.Diagnostics
}

// WithLogger sets the logger validation warnings and info messages go to.
func WithLogger(l *log.Logger) Option {
	return func(c *buildConfig) { c.logger = l }
}

// WithOverrides adds option layers applied after the heatmap spec's own options.
func WithOverrides(o ...config.Overrides) Option {
	return func(c *buildConfig) { c.overrides = append(c.overrides, o...) }
}

// WithDiagnostics records validation warnings in d instead of a fresh collector.
func WithDiagnostics(d *ferrors.Diagnostics) Option {
	return func(c *buildConfig) { c.diag = d }
}

// Build validates spec against t and resolves columns, groups and legends.
func Build(t *table.Table, spec Spec, opts ...Option) (*Heatmap, error) {
	cfg := buildConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.diag == nil {
		cfg.diag = ferrors.NewDiagnostics(cfg.logger)
	}
	if t == nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "no data")
	}

	layers := append([]config.Overrides{spec.Options}, cfg.overrides...)
	options := config.Resolve(config.Defaults(), layers...)

	cols, err := column.Build(t, spec.Columns, options, spec.Palettes, cfg.diag)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Group
	}
	colGroups, err := group.Columns(spec.ColumnGroups, keys, options.LabelGroupsAbc, cfg.diag)
	if err != nil {
		return nil, err
	}

	rows, err := group.BuildRows(spec.RowGroups, rowKeys(t, spec.RowGroupField), cfg.diag)
	if err != nil {
		return nil, err
	}

	var usages []legend.Usage
	for _, c := range cols {
		if c.Legend && c.PaletteName != palette.None {
			usages = append(usages, legend.Usage{Palette: c.PaletteName, Geom: c.Geom})
		}
	}
	legends, err := legend.Synthesize(spec.Legends, usages, spec.Palettes, cfg.diag)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("built heatmap",
		"rows", t.Len(),
		"columns", len(cols),
		"column_groups", len(colGroups),
		"row_groups", rows.Active,
		"legends", len(legends))

	return &Heatmap{
		Table:        t,
		Columns:      cols,
		ColumnGroups: colGroups,
		Rows:         rows,
		Legends:      legends,
		Palettes:     spec.Palettes,
		Options:      options,
		Class:        spec.Class,
		Style:        spec.Style,
		diag:         cfg.diag,
	}, nil
}

// rowKeys returns each row's group key, or nil if the data has no group field.
func rowKeys(t *table.Table, field string) []string {
	if field == "" {
		field = DefaultRowGroupField
	}
	if !t.HasField(field) {
		return nil
	}
	keys := make([]string, t.Len())
	for i, row := range t.Rows() {
		if v := row[field]; v != nil {
			keys[i] = fmt.Sprint(v)
		}
	}
	return keys
}

// Diagnostics returns the validation warnings recorded during Build.
func (h *Heatmap) Diagnostics() *ferrors.Diagnostics { return h.diag }

// Column returns the column with the given id.
func (h *Heatmap) Column(id string) (*column.Column, bool) {
	i := slices.IndexFunc(h.Columns, func(c *column.Column) bool { return c.ID == id })
	if i < 0 {
		return nil, false
	}
	return h.Columns[i], true
}

// Input returns the layout input for the given display order. A nil order
// keeps the data order.
func (h *Heatmap) Input(order []int) layout.Input {
	return layout.Input{
		Table:        h.Table,
		Order:        order,
		Columns:      h.Columns,
		ColumnGroups: h.ColumnGroups,
		Rows:         h.Rows,
		Legends:      h.Legends,
		Palettes:     h.Palettes,
		Options:      h.Options,
		Class:        h.Class,
		Style:        h.Style,
	}
}

// Layout runs one full layout pass.
func (h *Heatmap) Layout(ctx context.Context, m layout.Measurer, order []int) (*layout.Result, error) {
	return layout.Run(ctx, h.Input(order), m)
}
