package heatmap

import (
	"context"
	"testing"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/group"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/legend"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/measure"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

func ptr[T any](v T) *T { return &v }

func data() *table.Table {
	return table.FromRows([]table.Record{
		{"id": "m1", "a": 0.1, "b": 3, "img": "a.png", "kind": "x"},
		{"id": "m2", "a": 0.4, "b": 3, "img": "b.png", "kind": "y"},
		{"id": "m3", "a": 0.9, "b": 1, "img": "c.png", "kind": "x"},
	}, []string{"id", "a", "b", "img", "kind"})
}

func TestBuildOverridePropagation(t *testing.T) {
	h, err := Build(data(), Spec{
		Columns: []column.Spec{
			{ID: "a"},
			{ID: "b", ColorByRank: ptr(false)},
		},
	}, WithOverrides(config.Overrides{ColorByRank: ptr(true)}))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !h.Columns[0].ColorByRank {
		t.Error("column a should inherit colorByRank")
	}
	if h.Columns[1].ColorByRank {
		t.Error("column b override ignored")
	}
}

func TestBuildConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		code ferrors.Code
	}{
		{"missing id", Spec{Columns: []column.Spec{{Name: "A"}}}, ferrors.ErrCodeMissingID},
		{"unknown accessor", Spec{Columns: []column.Spec{{ID: "a", IDColor: "nope"}}}, ferrors.ErrCodeUnknownField},
		{"image without width", Spec{Columns: []column.Spec{{ID: "img", Geom: "image"}}}, ferrors.ErrCodeMissingWidth},
		{"unknown palette", Spec{Columns: []column.Spec{{ID: "a", Palette: "Nope"}}}, ferrors.ErrCodeUnknownPalette},
		{"unknown geom", Spec{Columns: []column.Spec{{ID: "a", Geom: "hexagon"}}}, ferrors.ErrCodeUnknownGeom},
		{"unknown group", Spec{
			Columns:      []column.Spec{{ID: "a", Group: "g1"}},
			ColumnGroups: []group.ColumnGroup{{Group: "g2"}},
		}, ferrors.ErrCodeUnknownGroup},
		{"unknown row group", Spec{
			Columns:       []column.Spec{{ID: "a"}},
			RowGroups:     []group.RowGroup{{Group: "x", Level1: "X"}},
			RowGroupField: "kind",
		}, ferrors.ErrCodeUnknownGroup},
		{"duplicate row group", Spec{
			Columns:       []column.Spec{{ID: "a"}},
			RowGroups:     []group.RowGroup{{Group: "x", Level1: "X"}, {Group: "y", Level1: "Y"}, {Group: "x", Level1: "X"}},
			RowGroupField: "kind",
		}, ferrors.ErrCodeUnknownGroup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Build(data(), tt.spec)
			if h != nil {
				t.Error("partial heatmap returned")
			}
			if !ferrors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if !ferrors.IsConfiguration(err) {
				t.Errorf("%v is not a configuration error", err)
			}
		})
	}
}

func TestBuildLegendSynthesis(t *testing.T) {
	h, err := Build(data(), Spec{
		Columns: []column.Spec{
			{ID: "id"},
			{ID: "a", Palette: "Foo"},
			{ID: "b", Palette: "Foo", Geom: "bar"},
			{ID: "kind", Palette: palette.None},
		},
		Palettes: palette.Mapping{"Foo": palette.Named("Reds")},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(h.Legends) != 1 {
		t.Fatalf("legends = %+v, want one", h.Legends)
	}
	l := h.Legends[0]
	if l.Palette != "Foo" || l.Title != "Foo" || !l.Enabled {
		t.Errorf("legend = %+v", l)
	}
}

func TestBuildExplicitLegend(t *testing.T) {
	h, err := Build(data(), Spec{
		Columns: []column.Spec{{ID: "a"}},
		Legends: []legend.Spec{{Title: "Score", Palette: palette.RefNumerical}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(h.Legends) != 1 || h.Legends[0].Title != "Score" {
		t.Errorf("legends = %+v", h.Legends)
	}
}

func TestBuildRowGroups(t *testing.T) {
	spec := Spec{
		Columns:       []column.Spec{{ID: "a"}},
		RowGroups:     []group.RowGroup{{Group: "x", Level1: "X"}, {Group: "y", Level1: "Y"}},
		RowGroupField: "kind",
	}
	h, err := Build(data(), spec)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !h.Rows.Active {
		t.Error("row grouping should be active")
	}

	spec.RowGroupField = "missing"
	h, err = Build(data(), spec)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if h.Rows.Active {
		t.Error("row grouping active without a group field")
	}
}

func TestBuildWarnings(t *testing.T) {
	h, err := Build(data(), Spec{
		Columns:      []column.Spec{{ID: "a", Group: "g1"}},
		ColumnGroups: []group.ColumnGroup{{Group: "g1"}, {Group: "g2"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !h.Diagnostics().Has(ferrors.WarnUnusedGroup) {
		t.Errorf("diagnostics = %v", h.Diagnostics().Items())
	}
}

func TestBuildNoData(t *testing.T) {
	if _, err := Build(nil, Spec{}); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestLayout(t *testing.T) {
	h, err := Build(data(), Spec{Class: "bench", Style: "max-width: 100%"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res, err := h.Layout(context.Background(), measure.NewFixed(), nil)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if res.Root.Tag != "svg" {
		t.Errorf("root = %s", res.Root.Tag)
	}
	if class, _ := res.Root.Attr("class"); class != "funkyheatmap bench" {
		t.Errorf("class = %q", class)
	}
	if style, _ := res.Root.Attr("style"); style != "max-width: 100%" {
		t.Errorf("style = %q", style)
	}
	if len(res.Geometry.Columns) != len(data().Fields()) {
		t.Errorf("columns = %d", len(res.Geometry.Columns))
	}
}
