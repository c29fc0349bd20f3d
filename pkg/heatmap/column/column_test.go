package column

import (
	"math"
	"slices"
	"testing"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/geom"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

func ptr[T any](v T) *T { return &v }

func TestClassification(t *testing.T) {
	tests := []struct {
		name    string
		data    []any
		geom    string
		numeric bool
		kind    geom.Kind
	}{
		{"numbers", []any{1.0, 2.5}, "", true, geom.Funkyrect},
		{"numeric strings", []any{"1", "2.5"}, "", true, geom.Funkyrect},
		{"leading nil", []any{nil, 3}, "", true, geom.Funkyrect},
		{"text", []any{"a", "b"}, "", false, geom.Text},
		{"booleans", []any{true, false}, "", false, geom.Text},
		{"blank", []any{"  ", "1"}, "", false, geom.Text},
		{"forced text", []any{1, 2}, "text", false, geom.Text},
		{"forced pie", []any{1, 2}, "pie", false, geom.Pie},
		{"bar", []any{1, 2}, "bar", true, geom.Bar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Spec{ID: "x", Geom: tt.geom}, tt.data, []string{"x"})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if c.Numeric != tt.numeric || c.Categorical == tt.numeric {
				t.Errorf("numeric = %v, categorical = %v; want numeric %v", c.Numeric, c.Categorical, tt.numeric)
			}
			if c.Geom != tt.kind {
				t.Errorf("geom = %v, want %v", c.Geom, tt.kind)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	fields := []string{"x"}
	c, _ := New(Spec{ID: "x"}, []any{1}, fields)
	if c.Name != "x" || c.PaletteName != palette.RefNumerical {
		t.Errorf("numeric defaults: name %q palette %q", c.Name, c.PaletteName)
	}

	c, _ = New(Spec{ID: "x"}, []any{"a"}, fields)
	if c.PaletteName != palette.None {
		t.Errorf("text palette = %q, want none", c.PaletteName)
	}

	c, _ = New(Spec{ID: "x", Geom: "pie"}, []any{"1;2"}, fields)
	if c.PaletteName != palette.RefCategorical {
		t.Errorf("pie palette = %q, want categorical", c.PaletteName)
	}

	c, _ = New(Spec{ID: "x", Geom: "bar"}, []any{1}, fields)
	if c.Width != DefaultBarWidth {
		t.Errorf("bar width = %v", c.Width)
	}

	c, _ = New(Spec{ID: "x", Options: Options{Width: ptr(2.0), Palette: "Reds"}}, []any{1}, fields)
	if c.Width != 2 || c.PaletteName != "Reds" {
		t.Errorf("options backfill: width %v palette %q", c.Width, c.PaletteName)
	}

	c, _ = New(Spec{ID: "x", Palette: "Greens", Options: Options{Palette: "Reds"}}, []any{1}, fields)
	if c.PaletteName != "Greens" {
		t.Errorf("explicit palette lost to options: %q", c.PaletteName)
	}
}

func TestNewErrors(t *testing.T) {
	fields := []string{"x", "y"}
	tests := []struct {
		name string
		spec Spec
		code ferrors.Code
	}{
		{"missing id", Spec{}, ferrors.ErrCodeMissingID},
		{"unknown id", Spec{ID: "z"}, ferrors.ErrCodeUnknownField},
		{"image without width", Spec{ID: "x", Geom: "image"}, ferrors.ErrCodeMissingWidth},
		{"bad geom", Spec{ID: "x", Geom: "star"}, ferrors.ErrCodeUnknownGeom},
		{"id_color", Spec{ID: "x", IDColor: "nope"}, ferrors.ErrCodeUnknownField},
		{"id_size", Spec{ID: "x", IDSize: "nope"}, ferrors.ErrCodeUnknownField},
		{"label", Spec{ID: "x", Label: "nope"}, ferrors.ErrCodeUnknownField},
		{"id_hover_text", Spec{ID: "x", IDHoverText: "nope"}, ferrors.ErrCodeUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.spec, []any{1}, fields)
			if !ferrors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if !ferrors.IsConfiguration(err) {
				t.Errorf("%v is not a configuration error", err)
			}
		})
	}

	if _, err := New(Spec{ID: "x", IDColor: "y", Geom: "image", Width: ptr(10.0)}, []any{"a.png"}, fields); err != nil {
		t.Errorf("valid accessors rejected: %v", err)
	}
}

func TestTieCollapsedRanks(t *testing.T) {
	c, _ := New(Spec{ID: "x"}, []any{1, 1, 2}, []string{"x"})
	c.CalculateStats(true, true, nil)

	rows := []table.Record{{"x": 1}, {"x": 1}, {"x": 2}}
	want := []float64{0, 0, 1}
	for i, r := range rows {
		got := c.GetColorValue(r)
		if got != want[i] {
			t.Errorf("row %d color value = %v, want %v", i, got, want[i])
		}
	}
}

func TestRankSingleValue(t *testing.T) {
	c, _ := New(Spec{ID: "x"}, []any{5, 5}, []string{"x"})
	c.CalculateStats(true, true, nil)
	if r, ok := c.Rank(5); !ok || r != 0 {
		t.Errorf("Rank(5) = %v, %v", r, ok)
	}
}

func TestStats(t *testing.T) {
	c, _ := New(Spec{ID: "x"}, []any{2, "n/a", 10, 6}, []string{"x"})

	c.CalculateStats(true, false, nil)
	if c.Min != 2 || c.Max != 10 || c.Range != 8 {
		t.Errorf("scaled extent = [%v, %v] range %v", c.Min, c.Max, c.Range)
	}

	c.CalculateStats(false, false, nil)
	if c.Min != 0 || c.Max != 1 {
		t.Errorf("unscaled extent = [%v, %v], want [0, 1]", c.Min, c.Max)
	}
	if !math.IsNaN(c.Values[1]) {
		t.Errorf("unparseable value coerced to %v, want NaN", c.Values[1])
	}
}

func TestColorAccessorDomain(t *testing.T) {
	c, _ := New(Spec{ID: "x", IDColor: "c"}, []any{1, 2}, []string{"x", "c"})
	c.CalculateStats(true, false, []any{10, 30})
	if c.ColorMin != 10 || c.ColorMax != 30 {
		t.Errorf("color domain = [%v, %v]", c.ColorMin, c.ColorMax)
	}
	if got := c.GetColorValue(table.Record{"x": 1, "c": 30}); got != 30 {
		t.Errorf("color accessor value = %v", got)
	}
}

func TestColorAccessorByRank(t *testing.T) {
	c, _ := New(Spec{ID: "a", IDColor: "c"}, []any{1, 2, 3}, []string{"a", "c"})
	c.CalculateStats(true, true, []any{10, 50, 100})
	if err := c.AssignPalette(palette.Mapping{}); err != nil {
		t.Fatalf("AssignPalette: %v", err)
	}

	rows := []table.Record{{"a": 3, "c": 10}, {"a": 2, "c": 50}, {"a": 1, "c": 100}}
	want := []float64{0, 0.5, 1}
	colors := map[string]bool{}
	for i, r := range rows {
		got := c.GetColorValue(r)
		if got != want[i] {
			t.Errorf("row %d color value = %v, want %v", i, got, want[i])
		}
		colors[c.Palette.Color(got)] = true
	}
	if len(colors) != 3 {
		t.Errorf("distinct colors = %d, want 3", len(colors))
	}
}

func TestAccessors(t *testing.T) {
	c, _ := New(Spec{ID: "x", IDSize: "s", Label: "l"}, []any{1}, []string{"x", "s", "l"})
	row := table.Record{"x": "0.5", "s": 0.9, "l": 0.12345}
	if got := c.GetValue(row); got != 0.9 {
		t.Errorf("GetValue = %v, want size accessor", got)
	}
	if got := c.Value(row); got != 0.5 {
		t.Errorf("Value = %v, want coerced 0.5", got)
	}
	if got := c.GetLabel(row, 2); got != "0.12" {
		t.Errorf("GetLabel = %q", got)
	}
}

func TestHoverText(t *testing.T) {
	fields := []string{"x", "h"}
	num, _ := New(Spec{ID: "x"}, []any{1}, fields)
	if got := num.GetHoverText(table.Record{"x": 0.123456}, 3); got != "0.123" {
		t.Errorf("numeric hover = %q", got)
	}
	if got := num.GetHoverText(table.Record{"x": 2.5}, 2); got != "2.5" {
		t.Errorf("numeric hover = %q, want trailing zeros trimmed", got)
	}
	if got := num.GetHoverText(table.Record{"x": "?"}, 2); got != "" {
		t.Errorf("missing hover = %q", got)
	}

	txt, _ := New(Spec{ID: "x"}, []any{"a"}, fields)
	if got := txt.GetHoverText(table.Record{"x": "a"}, 2); got != "" {
		t.Errorf("text hover = %q, want suppressed", got)
	}

	explicit, _ := New(Spec{ID: "x", IDHoverText: "h"}, []any{"a"}, fields)
	if got := explicit.GetHoverText(table.Record{"x": "a", "h": "note"}, 2); got != "note" {
		t.Errorf("explicit hover = %q", got)
	}
}

func TestSortCycle(t *testing.T) {
	c, _ := New(Spec{ID: "x"}, []any{1}, []string{"x"})
	var states []SortState
	for range 5 {
		c.Sort()
		states = append(states, c.SortState())
	}
	want := []SortState{Descending, Ascending, Descending, Ascending, Descending}
	if !slices.Equal(states, want) {
		t.Errorf("states = %v, want %v", states, want)
	}
	c.ResetSort()
	if c.Sort(); c.SortState() != Descending {
		t.Error("reset column should start descending")
	}
}

func TestComparator(t *testing.T) {
	c, _ := New(Spec{ID: "x"}, []any{1}, []string{"x"})
	rows := []table.Record{{"x": "2"}, {"x": nil}, {"x": 10}, {"x": 1}}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, c.Comparator(Descending))
	got := []any{sorted[0]["x"], sorted[1]["x"], sorted[2]["x"], sorted[3]["x"]}
	if !slices.Equal(got, []any{10, "2", 1, nil}) {
		t.Errorf("descending = %v", got)
	}

	slices.SortStableFunc(sorted, c.Comparator(Ascending))
	got = []any{sorted[0]["x"], sorted[1]["x"], sorted[2]["x"], sorted[3]["x"]}
	if !slices.Equal(got, []any{1, "2", 10, nil}) {
		t.Errorf("ascending = %v", got)
	}

	txt, _ := New(Spec{ID: "x"}, []any{"a"}, []string{"x"})
	names := []table.Record{{"x": "b"}, {"x": "a"}, {"x": "c"}}
	slices.SortStableFunc(names, txt.Comparator(Ascending))
	if names[0]["x"] != "a" || names[2]["x"] != "c" {
		t.Errorf("text ascending = %v", names)
	}
}

func TestBuildOverrides(t *testing.T) {
	tbl := table.FromRows([]table.Record{
		{"a": 1, "b": 2, "c": 3},
		{"a": 2, "b": 2, "c": 1},
	}, []string{"a", "b", "c"})
	opts := config.Defaults()
	opts.ColorByRank = true

	specs := []Spec{{ID: "a"}, {ID: "b", ColorByRank: ptr(false)}, {ID: "c"}}
	cols, err := Build(tbl, specs, opts, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, c := range cols {
		want := c.ID != "b"
		if c.ColorByRank != want {
			t.Errorf("column %s colorByRank = %v, want %v", c.ID, c.ColorByRank, want)
		}
	}
}

func TestBuildWithoutSpecs(t *testing.T) {
	tbl := table.FromRows([]table.Record{{"name": "x", "score": 0.5}}, []string{"name", "score"})
	cols, err := Build(tbl, nil, config.Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(cols) != 2 || cols[0].Geom != geom.Text || cols[1].Geom != geom.Funkyrect {
		t.Errorf("columns = %+v", cols)
	}
	if cols[1].Palette == nil {
		t.Error("numeric column has no palette")
	}
	if cols[0].Palette != nil {
		t.Error("text column should not have a palette")
	}
}

func TestBuildUnknownPalette(t *testing.T) {
	tbl := table.FromRows([]table.Record{{"s": 1}}, nil)
	_, err := Build(tbl, []Spec{{ID: "s", Palette: "Foo"}}, config.Defaults(), nil, nil)
	if !ferrors.Is(err, ferrors.ErrCodeUnknownPalette) {
		t.Errorf("err = %v", err)
	}
}

func TestBuildAlignWarning(t *testing.T) {
	tbl := table.FromRows([]table.Record{{"s": "a"}}, nil)
	diag := ferrors.NewDiagnostics(nil)
	cols, err := Build(tbl, []Spec{{ID: "s", Options: Options{Align: "justify"}}}, config.Defaults(), nil, diag)
	if err != nil {
		t.Fatal(err)
	}
	if cols[0].Align != "left" || !diag.Has(ferrors.WarnUnsupportedAlign) {
		t.Errorf("align = %q, diagnostics = %v", cols[0].Align, diag.Items())
	}
}

func TestPalettes(t *testing.T) {
	cols := []*Column{
		{PaletteName: "numerical", Legend: true},
		{PaletteName: "none", Legend: true},
		{PaletteName: "Foo", Legend: true},
		{PaletteName: "numerical", Legend: true},
		{PaletteName: "Hidden", Legend: false},
	}
	if got := Palettes(cols); !slices.Equal(got, []string{"numerical", "Foo"}) {
		t.Errorf("Palettes = %v", got)
	}
}
