// Package pipeline provides the heatmap pipeline shared by the CLI commands
// and the HTTP server.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: read the data table and the heatmap spec
//  2. Build: validate the heatmap spec against the data ([heatmap.Build])
//  3. Layout: apply the requested sorts and run a layout pass
//  4. Render: write SVG, PNG, PDF or JSON artifacts
//
// Rendered artifacts are cached under a hash of the data, spec, option
// overrides and render settings, so unchanged inputs skip stages 3 and 4.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    DataPath: "scores.csv",
//	    SpecPath: "scores.toml",
//	    Formats:  []string{"svg", "png"},
//	    Sort:     []pipeline.SortKey{{Column: "accuracy", State: column.Descending}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funkyheatmap/pkg/cache"
	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/layout"
	pio "github.com/matzehuels/funkyheatmap/pkg/io"
)

// =============================================================================
// Default Values
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Text measurers.
const (
	MeasurerFont  = "font"
	MeasurerFixed = "fixed"
)

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// SortKey is one requested sort, applied as if the column label had been
// clicked until it showed State.
type SortKey struct {
	Column string           `json:"column"`
	State  column.SortState `json:"state"`
}

// String returns "column:state".
func (k SortKey) String() string {
	return k.Column + ":" + string(k.State)
}

// ParseSortKey parses "column[:asc|desc]". The direction defaults to desc,
// the state after the first click.
func ParseSortKey(s string) (SortKey, error) {
	id, dir, _ := strings.Cut(s, ":")
	if id == "" {
		return SortKey{}, ferrors.New(ferrors.ErrCodeInvalidInput, "empty sort column in %q", s)
	}
	switch state := column.SortState(strings.ToLower(dir)); state {
	case "", column.Descending:
		return SortKey{Column: id, State: column.Descending}, nil
	case column.Ascending:
		return SortKey{Column: id, State: state}, nil
	default:
		return SortKey{}, ferrors.New(ferrors.ErrCodeInvalidInput, "sort direction %q must be asc or desc", dir)
	}
}

// Options contains all configuration for one pipeline run.
type Options struct {
	// Load options. Data takes precedence over DataPath; DataFormat is
	// detected from DataPath when empty. Spec takes precedence over
	// SpecPath; with neither, columns are inferred from the data.
	DataPath   string        `json:"data_path,omitempty"`
	Data       []byte        `json:"-"`
	DataFormat pio.Format    `json:"data_format,omitempty"`
	SpecPath   string        `json:"spec_path,omitempty"`
	Spec       *heatmap.Spec `json:"spec,omitempty"`

	// Build options, applied on top of the heatmap spec's own options.
	Overrides config.Overrides `json:"overrides"`

	// Layout options
	Sort     []SortKey `json:"sort,omitempty"`
	Measurer string    `json:"measurer,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Heatmap is the built heatmap, with sort state applied.
	Heatmap *heatmap.Heatmap

	// Layout is the final layout pass. It is nil when every artifact came
	// from the cache.
	Layout *layout.Result

	// Order is the display order as data row indices.
	Order []int

	// InputHash identifies the data, spec and overrides.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Columns    int
	Legends    int
	LoadTime   time.Duration
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMeasurer checks that a measurer name is valid.
func ValidateMeasurer(name string) error {
	if name != MeasurerFont && name != MeasurerFixed {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "invalid measurer: %q (must be one of: font, fixed)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.DataPath == "" && o.Data == nil {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "data path or data is required")
	}
	if o.Data != nil && o.DataFormat == "" {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "data format is required with inline data")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Measurer == "" {
		o.Measurer = MeasurerFont
	}
	if err := ValidateMeasurer(o.Measurer); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	for _, k := range o.Sort {
		if k.State != column.Ascending && k.State != column.Descending {
			return ferrors.New(ferrors.ErrCodeInvalidInput, "sort %s: direction must be asc or desc", k.Column)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SortStrings returns the sort keys as "column:state" strings.
func (o *Options) SortStrings() []string {
	out := make([]string, len(o.Sort))
	for i, k := range o.Sort {
		out[i] = k.String()
	}
	return out
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:      format,
		Sort:        o.SortStrings(),
		Interactive: o.Interactive && format == FormatSVG,
		Measurer:    o.Measurer,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

func (o *Options) source() string {
	if o.DataPath != "" {
		return o.DataPath
	}
	return fmt.Sprintf("<%d bytes of %s>", len(o.Data), o.DataFormat)
}
