package io

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/config"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/group"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// ReadSpec decodes a heatmap spec from r.
func ReadSpec(r io.Reader, f Format) (heatmap.Spec, error) {
	var spec heatmap.Spec
	switch f {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&spec)
		if err != nil {
			return heatmap.Spec{}, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode toml")
		}
		// Keys below the top level may belong to custom decoders (palettes,
		// legend sizes), so only top-level keys are checked.
		var unknown []string
		for _, k := range md.Undecoded() {
			if len(k) == 1 {
				unknown = append(unknown, k.String())
			}
		}
		if len(unknown) > 0 {
			return heatmap.Spec{}, ferrors.New(ferrors.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(unknown, ", "))
		}

	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
			return heatmap.Spec{}, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode yaml")
		}

	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
			return heatmap.Spec{}, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode json")
		}

	default:
		return heatmap.Spec{}, ferrors.New(ferrors.ErrCodeInvalidFormat, "%q is not a spec format", f)
	}
	return spec, nil
}

// LoadSpec reads the heatmap spec file at path, picking the format by extension.
func LoadSpec(path string) (heatmap.Spec, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return heatmap.Spec{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return heatmap.Spec{}, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer file.Close()

	spec, err := ReadSpec(file, f)
	if err != nil {
		return heatmap.Spec{}, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "read %s", path)
	}
	return spec, nil
}

// WriteSpec encodes spec to w.
func WriteSpec(w io.Writer, spec heatmap.Spec, f Format) error {
	switch f {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(spec)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(spec); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(spec)
	default:
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "%q is not a spec format", f)
	}
}

// Starter derives an editable spec from a table: one column per field with
// its inferred geom, and a row group for every distinct value of the group
// field if the table has one.
func Starter(t *table.Table) (heatmap.Spec, error) {
	cols, err := column.Build(t, nil, config.Defaults(), nil, nil)
	if err != nil {
		return heatmap.Spec{}, err
	}

	var spec heatmap.Spec
	for _, c := range cols {
		if c.ID == heatmap.DefaultRowGroupField {
			continue
		}
		spec.Columns = append(spec.Columns, column.Spec{
			ID:   c.ID,
			Name: group.Capitalize(c.ID),
			Geom: c.Geom.String(),
		})
	}

	if t.HasField(heatmap.DefaultRowGroupField) {
		var seen []string
		for _, v := range t.Column(heatmap.DefaultRowGroupField) {
			if s, ok := v.(string); ok && s != "" && !slices.Contains(seen, s) {
				seen = append(seen, s)
				spec.RowGroups = append(spec.RowGroups, group.RowGroup{Group: s, Level1: group.Capitalize(s)})
			}
		}
	}
	return spec, nil
}
