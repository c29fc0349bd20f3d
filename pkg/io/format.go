package io

import (
	"path/filepath"
	"strings"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
)

// Format is a file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// DetectFormat returns the format implied by a file extension.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported file extension %q in %s", ext, path)
	}
}
