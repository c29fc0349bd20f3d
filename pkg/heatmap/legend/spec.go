package legend

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// Spec is a user legend entry. Unset fields are inferred by [Synthesize].
type Spec struct {
	Title      string   `toml:"title,omitempty" json:"title,omitempty" yaml:"title,omitempty"`
	Palette    string   `toml:"palette,omitempty" json:"palette,omitempty" yaml:"palette,omitempty"`
	Geom       string   `toml:"geom,omitempty" json:"geom,omitempty" yaml:"geom,omitempty"`
	Labels     []string `toml:"labels,omitempty" json:"labels,omitempty" yaml:"labels,omitempty"`
	Values     []any    `toml:"values,omitempty" json:"values,omitempty" yaml:"values,omitempty"`
	Size       Size     `toml:"size,omitempty" json:"size,omitempty" yaml:"size,omitempty"`
	LabelAlign string   `toml:"label_align,omitempty" json:"label_align,omitempty" yaml:"label_align,omitempty"`
	LabelHjust *float64 `toml:"label_hjust,omitempty" json:"label_hjust,omitempty" yaml:"label_hjust,omitempty"`
	Enabled    *bool    `toml:"enabled,omitempty" json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// Size is a legend size: either one value for every entry or one per entry.
type Size struct {
	Scalar *float64
	List   []float64
}

// IsSet reports whether any size was given.
func (s Size) IsSet() bool { return s.Scalar != nil || s.List != nil }

// Expand returns one size per entry.
func (s Size) Expand(n int) []float64 {
	if s.Scalar == nil {
		return s.List
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = *s.Scalar
	}
	return out
}

func sizeFromValue(v any) (Size, error) {
	switch t := v.(type) {
	case nil:
		return Size{}, nil
	case []any:
		list := make([]float64, len(t))
		for i, it := range t {
			f, ok := table.Number(it)
			if !ok {
				return Size{}, fmt.Errorf("legend size entry %d is not a number: %v", i, it)
			}
			list[i] = f
		}
		return Size{List: list}, nil
	default:
		f, ok := table.Number(v)
		if !ok {
			return Size{}, fmt.Errorf("legend size must be a number or a list of numbers, got %T", v)
		}
		return Size{Scalar: &f}, nil
	}
}

// UnmarshalTOML implements toml.Unmarshaler.
func (s *Size) UnmarshalTOML(v any) error {
	out, err := sizeFromValue(v)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return s.UnmarshalTOML(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Size) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return s.UnmarshalTOML(v)
}

// MarshalJSON writes a scalar size as a number and a list as an array.
func (s Size) MarshalJSON() ([]byte, error) {
	if s.Scalar != nil {
		return json.Marshal(*s.Scalar)
	}
	return json.Marshal(s.List)
}

// MarshalYAML writes a scalar size as a number and a list as a sequence.
func (s Size) MarshalYAML() (any, error) {
	if s.Scalar != nil {
		return *s.Scalar, nil
	}
	return s.List, nil
}

// MarshalTOML writes the size as a TOML number or array.
func (s Size) MarshalTOML() ([]byte, error) {
	if s.Scalar == nil && s.List == nil {
		return []byte("[]"), nil
	}
	return s.MarshalJSON()
}
