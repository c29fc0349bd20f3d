package palette

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
)

func TestResolveDefaults(t *testing.T) {
	tests := []struct {
		ref  string
		want []string
	}{
		{RefNumerical, Numerical[DefaultNumerical]},
		{RefCategorical, Categorical[DefaultCategorical]},
		{"Reds", Numerical["Reds"]},
		{"Dark2", Categorical["Dark2"]},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := Resolve(tt.ref, nil)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if strings.Join(got.Colors, ",") != strings.Join(tt.want, ",") {
				t.Errorf("colors = %v, want %v", got.Colors, tt.want)
			}
		})
	}
}

func TestResolveMapping(t *testing.T) {
	m := Mapping{
		"numerical": Named("Greens"),
		"alias":     Named("numerical"),
		"custom":    List("#000000", "#ffffff"),
		"named":     WithNames([]string{"red", "blue"}, []string{"a", "b"}),
	}

	got, err := Resolve("alias", m)
	if err != nil {
		t.Fatalf("Resolve(alias): %v", err)
	}
	if got.Colors[0] != Numerical["Greens"][0] {
		t.Errorf("alias resolved to %v", got.Colors)
	}

	got, err = Resolve("custom", m)
	if err != nil || len(got.Colors) != 2 {
		t.Fatalf("Resolve(custom) = %v, %v", got, err)
	}

	got, err = Resolve("named", m)
	if err != nil || got.Names[1] != "b" {
		t.Fatalf("Resolve(named) = %v, %v", got, err)
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve("Nope", nil)
	if !ferrors.Is(err, ferrors.ErrCodeUnknownPalette) {
		t.Fatalf("err = %v, want UNKNOWN_PALETTE", err)
	}
	for _, name := range BuiltinNames() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not list %q: %v", name, err)
		}
	}
}

func TestResolveCycle(t *testing.T) {
	m := Mapping{"a": Named("b"), "b": Named("a")}
	if _, err := Resolve("a", m); !ferrors.Is(err, ferrors.ErrCodeUnknownPalette) {
		t.Fatalf("err = %v, want UNKNOWN_PALETTE", err)
	}
}

func TestResolveNamesMismatch(t *testing.T) {
	m := Mapping{"x": WithNames([]string{"red"}, []string{"a", "b"})}
	if _, err := Resolve("x", m); err == nil {
		t.Fatal("expected error for mismatched names")
	}
}

func TestFromValue(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    Definition
		wantErr bool
	}{
		{"name", "Blues", Named("Blues"), false},
		{"list", []any{"#fff", "#000"}, List("#fff", "#000"), false},
		{"named", map[string]any{"colors": []any{"red"}, "names": []any{"x"}}, WithNames([]string{"red"}, []string{"x"}), false},
		{"number", 3.0, Definition{}, true},
		{"mixed list", []any{"red", 1}, Definition{}, true},
		{"no colors", map[string]any{"names": []any{"x"}}, Definition{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromValue(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Name != tt.want.Name ||
				strings.Join(got.Colors, ",") != strings.Join(tt.want.Colors, ",") ||
				strings.Join(got.Names, ",") != strings.Join(tt.want.Names, ",") {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeFormats(t *testing.T) {
	var fromTOML struct {
		Palettes Mapping `toml:"palettes"`
	}
	tomlDoc := `
[palettes]
overall = "Greys"
custom = ["#111111", "#222222"]
named = { colors = ["red", "green"], names = ["no", "yes"] }
`
	if _, err := toml.Decode(tomlDoc, &fromTOML); err != nil {
		t.Fatalf("toml: %v", err)
	}

	var fromYAML struct {
		Palettes Mapping `yaml:"palettes"`
	}
	yamlDoc := `
palettes:
  overall: Greys
  custom: ["#111111", "#222222"]
  named:
    colors: [red, green]
    names: ["no", "yes"]
`
	if err := yaml.Unmarshal([]byte(yamlDoc), &fromYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}

	var fromJSON struct {
		Palettes Mapping `json:"palettes"`
	}
	jsonDoc := `{"palettes": {"overall": "Greys", "custom": ["#111111", "#222222"],
		"named": {"colors": ["red", "green"], "names": ["no", "yes"]}}}`
	if err := json.Unmarshal([]byte(jsonDoc), &fromJSON); err != nil {
		t.Fatalf("json: %v", err)
	}

	for format, m := range map[string]Mapping{"toml": fromTOML.Palettes, "yaml": fromYAML.Palettes, "json": fromJSON.Palettes} {
		if m["overall"].Name != "Greys" {
			t.Errorf("%s: overall = %+v", format, m["overall"])
		}
		if len(m["custom"].Colors) != 2 {
			t.Errorf("%s: custom = %+v", format, m["custom"])
		}
		if len(m["named"].Names) != 2 || m["named"].Names[1] != "yes" {
			t.Errorf("%s: named = %+v", format, m["named"])
		}
	}
}

func TestLinear(t *testing.T) {
	l := NewLinear(0, 10, []string{"#000000", "#ffffff"})
	tests := []struct {
		v    any
		want string
	}{
		{0.0, "#000000"},
		{10.0, "#ffffff"},
		{-5.0, "#000000"},
		{20.0, "#ffffff"},
		{"10", "#ffffff"},
		{"abc", Fallback},
		{nil, Fallback},
	}
	for _, tt := range tests {
		if got := l.Color(tt.v); got != tt.want {
			t.Errorf("Color(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}

	mid := l.Color(5.0)
	if mid == "#000000" || mid == "#ffffff" {
		t.Errorf("Color(5) = %q, want an intermediate grey", mid)
	}
}

func TestLinearDegenerateDomain(t *testing.T) {
	l := NewLinear(3, 3, []string{"#000000", "#ffffff"})
	if got := l.Color(3.0); got != "#000000" {
		t.Errorf("Color(3) = %q, want first color", got)
	}
}

func TestOrdinal(t *testing.T) {
	o := NewOrdinal([]string{"red", "green", "blue"}, []string{"b"})
	if got := o.Color("b"); got != "red" {
		t.Errorf("named category = %q, want red", got)
	}
	if got := o.Color("x"); got != "green" {
		t.Errorf("first new category = %q, want green", got)
	}
	if got := o.Color("y"); got != "blue" {
		t.Errorf("second new category = %q, want blue", got)
	}
	if got := o.Color("x"); got != "green" {
		t.Errorf("repeat category = %q, want green", got)
	}
	if got := o.Color("z"); got != "red" {
		t.Errorf("overflow category = %q, want red (cycled)", got)
	}
}

func TestMiddle(t *testing.T) {
	if got := Middle([]string{"a", "b", "c"}); got != "b" {
		t.Errorf("Middle = %q", got)
	}
	if got := Middle(nil); got != Fallback {
		t.Errorf("Middle(nil) = %q", got)
	}
}

func TestOrdinalPositional(t *testing.T) {
	o := NewOrdinal([]string{"red", "green"}, nil)
	if got := o.Color(1); got != "green" {
		t.Errorf("Color(1) = %q, want green", got)
	}
	if got := o.Color("label"); got != "red" {
		t.Errorf("Color(label) = %q, want red (cycled past the indices)", got)
	}
}

func TestOrdinalNamedByIndex(t *testing.T) {
	o := NewOrdinal([]string{"red", "green", "blue"}, []string{"yes", "no", "maybe"})
	if got := o.Color(2); got != "blue" {
		t.Errorf("Color(2) = %q, want blue", got)
	}
	if got := o.Color("no"); got != "green" {
		t.Errorf("Color(no) = %q, want green", got)
	}
}
