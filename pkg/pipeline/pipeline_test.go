package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/funkyheatmap/pkg/cache"
	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/observability"
	pio "github.com/matzehuels/funkyheatmap/pkg/io"
)

const scores = `id,name,accuracy,time
a,Alpha,0.5,10
b,Beta,0.9,3
c,Gamma,0.7,7
`

func inline() Options {
	return Options{
		Data:       []byte(scores),
		DataFormat: pio.FormatCSV,
		Measurer:   MeasurerFixed,
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); !ferrors.Is(err, ferrors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format should fail with INVALID_FORMAT: %v", err)
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"accuracy", SortKey{"accuracy", column.Descending}, false},
		{"accuracy:desc", SortKey{"accuracy", column.Descending}, false},
		{"accuracy:ASC", SortKey{"accuracy", column.Ascending}, false},
		{"accuracy:up", SortKey{}, true},
		{":asc", SortKey{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{DataPath: "scores.csv"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if !slices.Equal(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Measurer != MeasurerFont || opts.Scale != DefaultScale || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}

	bad := []Options{
		{},
		{Data: []byte("x")},
		{DataPath: "a.csv", Formats: []string{"gif"}},
		{DataPath: "a.csv", Measurer: "ruler"},
		{DataPath: "a.csv", Sort: []SortKey{{Column: "x"}}},
	}
	for i, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{
		Interactive: true,
		Scale:       3,
		Measurer:    MeasurerFont,
		Sort:        []SortKey{{"time", column.Ascending}},
	}
	svg := opts.ArtifactKeyOpts(FormatSVG)
	if !svg.Interactive || svg.Scale != 0 || !slices.Equal(svg.Sort, []string{"time:asc"}) {
		t.Errorf("svg opts = %+v", svg)
	}
	png := opts.ArtifactKeyOpts(FormatPNG)
	if png.Interactive || png.Scale != 3 {
		t.Errorf("png opts = %+v", png)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()
	r := NewRunner(c, nil, nil)

	opts := inline()
	opts.Formats = []string{FormatSVG, FormatJSON}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if res.Stats.Rows != 3 || res.Stats.Columns != 4 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<?xml")) {
		t.Errorf("svg artifact missing header: %.40s", res.Artifacts[FormatSVG])
	}
	if !bytes.Contains(res.Artifacts[FormatJSON], []byte(`"geometry"`)) {
		t.Error("json artifact missing geometry")
	}
	if c.Len() != 2 {
		t.Errorf("cache entries = %d, want 2", c.Len())
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !again.CacheInfo.RenderHit || again.Layout != nil {
		t.Error("second run should be served from the cache")
	}
	if !bytes.Equal(again.Artifacts[FormatSVG], res.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	fresh, _ := r.Execute(ctx, opts)
	if fresh.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteSort(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(cache.NewMemoryCache(), nil, nil)

	tests := []struct {
		sort []SortKey
		want []int
	}{
		{nil, []int{0, 1, 2}},
		{[]SortKey{{"accuracy", column.Descending}}, []int{1, 2, 0}},
		{[]SortKey{{"accuracy", column.Ascending}}, []int{0, 2, 1}},
		{[]SortKey{{"accuracy", column.Descending}, {"time", column.Ascending}}, []int{1, 2, 0}},
	}
	for _, tt := range tests {
		opts := inline()
		opts.Sort = tt.sort
		res, err := r.Execute(ctx, opts)
		if err != nil {
			t.Fatalf("Execute(%v): %v", tt.sort, err)
		}
		if !slices.Equal(res.Order, tt.want) {
			t.Errorf("sort %v: order = %v, want %v", tt.sort, res.Order, tt.want)
		}
	}
}

func TestExecuteConfigurationError(t *testing.T) {
	opts := inline()
	opts.Spec = &heatmap.Spec{Columns: []column.Spec{{ID: "missing"}}}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if !ferrors.IsConfiguration(err) {
		t.Fatalf("err = %v, want configuration error", err)
	}
	if res != nil {
		t.Error("no result should be returned on configuration errors")
	}
}

func TestExecuteUnknownSortColumn(t *testing.T) {
	opts := inline()
	opts.Sort = []SortKey{{"nope", column.Descending}}
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if !ferrors.Is(err, ferrors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "scores.csv")
	spec := filepath.Join(dir, "scores.toml")
	if err := os.WriteFile(data, []byte(scores), 0o644); err != nil {
		t.Fatal(err)
	}
	toml := `[[columns]]
id = "name"

[[columns]]
id = "accuracy"
geom = "bar"
`
	if err := os.WriteFile(spec, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := Load(context.Background(), Options{DataPath: data, SpecPath: spec})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if in.Table.Len() != 3 || len(in.Spec.Columns) != 2 {
		t.Errorf("loaded %d rows, %d column specs", in.Table.Len(), len(in.Spec.Columns))
	}

	_, err = Load(context.Background(), Options{DataPath: filepath.Join(dir, "missing.csv")})
	if !ferrors.Is(err, ferrors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestInputHash(t *testing.T) {
	ctx := context.Background()
	a, _ := Load(ctx, inline())
	b, _ := Load(ctx, inline())
	if a.Hash != b.Hash {
		t.Error("hash should be deterministic")
	}

	o := inline()
	o.Overrides = config.Overrides{RowHeight: config.Ptr(30.0)}
	c, _ := Load(ctx, o)
	if a.Hash == c.Hash {
		t.Error("overrides should change the hash")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	stages []string
}

func (h *recordingHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
	h.stages = append(h.stages, "load")
}

func (h *recordingHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {
	h.stages = append(h.stages, "build")
}

func (h *recordingHooks) OnLayoutComplete(context.Context, time.Duration, error) {
	h.stages = append(h.stages, "layout")
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.stages = append(h.stages, "render")
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), inline()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if want := []string{"load", "build", "layout", "render"}; !slices.Equal(hooks.stages, want) {
		t.Errorf("stages = %v, want %v", hooks.stages, want)
	}
}

func TestExampleMtcars(t *testing.T) {
	dir := filepath.Join("..", "..", "examples", "mtcars")
	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		DataPath: filepath.Join(dir, "mtcars.csv"),
		SpecPath: filepath.Join(dir, "mtcars.toml"),
		Measurer: MeasurerFixed,
		Formats:  []string{FormatSVG, FormatJSON},
		Sort:     []SortKey{{"mpg", column.Descending}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stats.Rows != 13 || result.Stats.Columns != 9 {
		t.Errorf("stats = %+v", result.Stats)
	}
	// Rows stay inside their cylinder group.
	want := []int{0, 1, 2, 3, 4, 6, 5, 7, 8, 9, 10, 11, 12}
	if !slices.Equal(result.Order, want) {
		t.Errorf("order = %v, want %v", result.Order, want)
	}
	if !bytes.Contains(result.Artifacts[FormatSVG], []byte("Performance")) {
		t.Error("svg should contain the column group label")
	}
}
