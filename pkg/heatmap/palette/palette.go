// Package palette maps palette references to concrete color scales.
//
// A palette reference is resolved against a name → [Definition] mapping.
// A definition is one of:
//   - the name of a built-in palette (Blues, Set1, ...) or of another mapping entry
//   - a literal list of colors
//   - a {colors, names} pair, whose names key categorical colors and caption legends
//
// The references "numerical" and "categorical" fall back to Blues and Set1
// unless the mapping redefines them; "none" means no color mapping at all.
//
// Numeric columns get a piecewise-linear [Linear] scale whose domain is
// spread evenly over the resolved colors. Categorical geoms (pie, text) get an
// [Ordinal] scale keyed by color names or positional index.
package palette

import (
	"fmt"
	"strings"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
)

// Definition is one palette entry of a mapping.
// Exactly one of Name or Colors is set.
type Definition struct {
	Name   string   // reference to a built-in palette or another mapping entry
	Colors []string // literal colors
	Names  []string // optional category names, parallel to Colors
}

// Mapping maps palette reference names to definitions.
type Mapping map[string]Definition

// Resolved is a palette reduced to its colors.
type Resolved struct {
	Colors []string
	Names  []string
}

// Named returns a definition referring to another palette by name.
func Named(name string) Definition { return Definition{Name: name} }

// List returns a definition from literal colors.
func List(colors ...string) Definition { return Definition{Colors: colors} }

// WithNames returns a definition of named category colors.
func WithNames(colors, names []string) Definition {
	return Definition{Colors: colors, Names: names}
}

// Resolve resolves ref against the mapping. The generic references
// "numerical" and "categorical" default to Blues and Set1.
func Resolve(ref string, m Mapping) (Resolved, error) {
	seen := map[string]bool{}
	name := ref
	for {
		if seen[name] {
			return Resolved{}, ferrors.New(ferrors.ErrCodeUnknownPalette,
				"palette %q is defined in terms of itself", ref)
		}
		seen[name] = true

		def, ok := m[name]
		if !ok {
			switch name {
			case RefNumerical:
				def = Named(DefaultNumerical)
			case RefCategorical:
				def = Named(DefaultCategorical)
			default:
				def = Named(name)
			}
		}

		if len(def.Colors) > 0 {
			if len(def.Names) > 0 && len(def.Names) != len(def.Colors) {
				return Resolved{}, ferrors.New(ferrors.ErrCodeUnknownPalette,
					"palette %q has %d colors but %d names", ref, len(def.Colors), len(def.Names))
			}
			return Resolved{Colors: def.Colors, Names: def.Names}, nil
		}
		if colors, ok := builtin(def.Name); ok {
			return Resolved{Colors: colors}, nil
		}
		if def.Name == "" || def.Name == name {
			return Resolved{}, ferrors.New(ferrors.ErrCodeUnknownPalette,
				"palette %q not defined. Use one of %s", ref, strings.Join(BuiltinNames(), ", "))
		}
		name = def.Name
	}
}

// FromValue decodes a palette definition from a generic decoded value, as
// produced by the TOML, YAML and JSON decoders: a string, a list of strings,
// or a table with "colors" and "names".
func FromValue(v any) (Definition, error) {
	switch t := v.(type) {
	case string:
		return Named(t), nil
	case []string:
		return List(t...), nil
	case []any:
		colors, err := stringList(t)
		if err != nil {
			return Definition{}, fmt.Errorf("palette definition is not recognized: %w", err)
		}
		return List(colors...), nil
	case map[string]any:
		rawColors, ok := t["colors"]
		if !ok {
			return Definition{}, fmt.Errorf("palette definition is not recognized: missing colors")
		}
		def, err := FromValue(rawColors)
		if err != nil || len(def.Colors) == 0 {
			return Definition{}, fmt.Errorf("palette definition is not recognized: colors must be a list")
		}
		if rawNames, ok := t["names"]; ok {
			items, ok := rawNames.([]any)
			if !ok {
				if ss, isStrings := rawNames.([]string); isStrings {
					def.Names = ss
				} else {
					return Definition{}, fmt.Errorf("palette definition is not recognized: names must be a list")
				}
			} else {
				names, err := stringList(items)
				if err != nil {
					return Definition{}, err
				}
				def.Names = names
			}
		}
		return def, nil
	default:
		return Definition{}, fmt.Errorf("palette definition %v is not recognized. Expected are: palette name, list of colors, colors with names", v)
	}
}

func stringList(items []any) ([]string, error) {
	out := make([]string, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("expected string at position %d, got %T", i, it)
		}
		out[i] = s
	}
	return out, nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Definition) UnmarshalTOML(v any) error {
	def, err := FromValue(v)
	if err != nil {
		return err
	}
	*d = def
	return nil
}
