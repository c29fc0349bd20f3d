package palette

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	def, err := FromValue(v)
	if err != nil {
		return err
	}
	*d = def
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Definition) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	def, err := FromValue(v)
	if err != nil {
		return err
	}
	*d = def
	return nil
}

// MarshalJSON writes the definition back in its shortest form.
func (d Definition) MarshalJSON() ([]byte, error) {
	switch {
	case len(d.Colors) == 0:
		return json.Marshal(d.Name)
	case len(d.Names) == 0:
		return json.Marshal(d.Colors)
	default:
		return json.Marshal(map[string][]string{"colors": d.Colors, "names": d.Names})
	}
}

// MarshalYAML writes the definition in its shortest form.
func (d Definition) MarshalYAML() (any, error) {
	switch {
	case len(d.Colors) == 0:
		return d.Name, nil
	case len(d.Names) == 0:
		return d.Colors, nil
	default:
		return map[string][]string{"colors": d.Colors, "names": d.Names}, nil
	}
}

// MarshalTOML writes the definition as a TOML value: a string, an array, or
// an inline table.
func (d Definition) MarshalTOML() ([]byte, error) {
	if len(d.Colors) == 0 || len(d.Names) == 0 {
		return d.MarshalJSON()
	}
	colors, err := json.Marshal(d.Colors)
	if err != nil {
		return nil, err
	}
	names, err := json.Marshal(d.Names)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "{colors = %s, names = %s}", colors, names), nil
}
