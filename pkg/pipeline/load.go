package pipeline

import (
	"bytes"
	"context"
	"os"

	"github.com/matzehuels/funkyheatmap/pkg/buildinfo"
	"github.com/matzehuels/funkyheatmap/pkg/cache"
	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap"
	pio "github.com/matzehuels/funkyheatmap/pkg/io"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// Input is a loaded data table and spec.
type Input struct {
	Table *table.Table
	Spec  heatmap.Spec

	// Hash covers the data bytes, the heatmap spec, the option overrides and the
	// program version.
	Hash string
}

// Load reads the data table and the heatmap spec named by opts.
func Load(ctx context.Context, opts Options) (*Input, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	data := opts.Data
	if data == nil {
		var err error
		if data, err = os.ReadFile(opts.DataPath); err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "read %s", opts.DataPath)
		}
	}
	format := opts.DataFormat
	if format == "" {
		var err error
		if format, err = pio.DetectFormat(opts.DataPath); err != nil {
			return nil, err
		}
	}
	t, err := pio.ReadData(bytes.NewReader(data), format)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "read %s", opts.source())
	}

	var spec heatmap.Spec
	switch {
	case opts.Spec != nil:
		spec = *opts.Spec
	case opts.SpecPath != "":
		if spec, err = pio.LoadSpec(opts.SpecPath); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Input{
		Table: t,
		Spec:  spec,
		Hash:  cache.HashJSON([]string{buildinfo.Version, cache.Hash(data), cache.HashJSON(spec), cache.HashJSON(opts.Overrides)}),
	}, nil
}
