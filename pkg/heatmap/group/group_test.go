package group

import (
	"reflect"
	"slices"
	"testing"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
)

func TestColumnsSynthesized(t *testing.T) {
	got, err := Columns(nil, []string{"", "method", "accuracy", "method", "speed"}, false, nil)
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	var keys, labels []string
	for _, g := range got {
		keys = append(keys, g.Group)
		labels = append(labels, g.Level1)
		if g.Palette != "none" {
			t.Errorf("group %s palette = %q, want none", g.Group, g.Palette)
		}
	}
	if !slices.Equal(keys, []string{"method", "accuracy", "speed"}) {
		t.Errorf("keys = %v, want first-seen order", keys)
	}
	if !slices.Equal(labels, []string{"Method", "Accuracy", "Speed"}) {
		t.Errorf("labels = %v", labels)
	}
}

func TestColumnsNoGroups(t *testing.T) {
	got, err := Columns(nil, []string{"", ""}, false, nil)
	if err != nil || got != nil {
		t.Errorf("Columns = %v, %v", got, err)
	}
}

func TestColumnsUnknownGroup(t *testing.T) {
	_, err := Columns([]ColumnGroup{{Group: "a"}}, []string{"a", "b"}, false, nil)
	if !ferrors.Is(err, ferrors.ErrCodeUnknownGroup) {
		t.Errorf("err = %v", err)
	}
}

func TestColumnsUnusedWarning(t *testing.T) {
	diag := ferrors.NewDiagnostics(nil)
	_, err := Columns([]ColumnGroup{{Group: "a"}, {Group: "extra"}}, []string{"a"}, false, diag)
	if err != nil {
		t.Fatal(err)
	}
	items := diag.Items()
	if len(items) != 1 || items[0].Code != ferrors.WarnUnusedGroup || items[0].Subject != "extra" {
		t.Errorf("diagnostics = %v", items)
	}
}

func TestColumnsPalette(t *testing.T) {
	got, err := Columns([]ColumnGroup{{Group: "a", Palette: "overall"}, {Group: "b", Palette: "Reds"}}, []string{"a", "b"}, false, nil)
	if err != nil || got[0].Palette != "overall" {
		t.Errorf("Columns = %v, %v", got, err)
	}

	_, err = Columns([]ColumnGroup{{Group: "a", Palette: "overall"}, {Group: "b"}}, []string{"a", "b"}, false, nil)
	if err == nil {
		t.Error("expected error when a later group lacks a palette")
	}
}

func TestColumnsKeepsInput(t *testing.T) {
	in := []ColumnGroup{{Group: "a"}}
	if _, err := Columns(in, []string{"a"}, true, nil); err != nil {
		t.Fatal(err)
	}
	if in[0].Level1 != "" || in[0].Palette != "" {
		t.Errorf("input modified: %+v", in[0])
	}
}

func TestColumnsAbc(t *testing.T) {
	got, _ := Columns([]ColumnGroup{{Group: "x", Level1: "Overall"}, {Group: "y"}}, []string{"x", "y"}, true, nil)
	if got[0].Level1 != "a) Overall" || got[1].Level1 != "b) Y" {
		t.Errorf("labels = %q, %q", got[0].Level1, got[1].Level1)
	}
}

func TestAbc(t *testing.T) {
	for i, want := range map[int]string{0: "a", 25: "z", 26: "aa", 27: "ab"} {
		if got := abc(i); got != want {
			t.Errorf("abc(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestLevels(t *testing.T) {
	g := ColumnGroup{Level1: "a", Level2: "b"}
	if got := g.Levels(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Levels = %v", got)
	}
}

func TestRuns(t *testing.T) {
	got := Runs([]string{"", "a", "a", "b", "", "a"})
	want := []Run{{"a", 1, 3}, {"b", 3, 4}, {"a", 5, 6}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Runs = %v, want %v", got, want)
	}
}

func TestBuildRowsInactive(t *testing.T) {
	r, err := BuildRows([]RowGroup{{Group: "a"}}, []string{"a", "b"}, nil)
	if err != nil || r.Active {
		t.Errorf("unlabelled groups: %+v, %v", r, err)
	}
	r, err = BuildRows([]RowGroup{{Group: "a", Level1: "A"}}, nil, nil)
	if err != nil || r.Active {
		t.Errorf("no row keys: %+v, %v", r, err)
	}
	if b := r.Buckets([]int{2, 0, 1}); len(b) != 1 || !slices.Equal(b[0], []int{2, 0, 1}) {
		t.Errorf("inactive buckets = %v", b)
	}
}

func TestBuildRowsActive(t *testing.T) {
	groups := []RowGroup{{Group: "b", Level1: "Second"}, {Group: "a", Level1: "First"}}
	r, err := BuildRows(groups, []string{"a", "b", "a", "b"}, nil)
	if err != nil || !r.Active {
		t.Fatalf("BuildRows = %+v, %v", r, err)
	}
	got := r.Buckets([]int{0, 1, 2, 3})
	if !reflect.DeepEqual(got, [][]int{{1, 3}, {0, 2}}) {
		t.Errorf("buckets = %v, want group order", got)
	}
	if r.Label("a") != "First" {
		t.Errorf("Label(a) = %q", r.Label("a"))
	}
}

func TestBuildRowsUnknown(t *testing.T) {
	_, err := BuildRows([]RowGroup{{Group: "a", Level1: "A"}}, []string{"a", "z"}, nil)
	if !ferrors.Is(err, ferrors.ErrCodeUnknownGroup) {
		t.Errorf("err = %v", err)
	}
}

func TestDuplicateGroups(t *testing.T) {
	_, err := BuildRows([]RowGroup{{Group: "x", Level1: "X"}, {Group: "y", Level1: "Y"}, {Group: "x", Level1: "X again"}}, []string{"x", "y"}, nil)
	if !ferrors.Is(err, ferrors.ErrCodeUnknownGroup) || !ferrors.IsConfiguration(err) {
		t.Errorf("duplicate row group: err = %v", err)
	}

	_, err = Columns([]ColumnGroup{{Group: "a"}, {Group: "a"}}, []string{"a"}, false, nil)
	if !ferrors.Is(err, ferrors.ErrCodeUnknownGroup) {
		t.Errorf("duplicate column group: err = %v", err)
	}
}
