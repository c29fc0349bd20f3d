package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap/interact"
	"github.com/matzehuels/funkyheatmap/pkg/pipeline"
)

func (c *CLI) previewCommand() *cobra.Command {
	var spec, output, measurer string

	cmd := &cobra.Command{
		Use:   "preview [data]",
		Short: "Browse and sort a heatmap in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = basePath("", args[0]) + ".svg"
			}
			return c.runPreview(cmd.Context(), args[0], spec, output, measurer)
		},
	}

	cmd.Flags().StringVarP(&spec, "spec", "s", "", "heatmap spec file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "SVG file written with 'w' (default: data name with .svg)")
	cmd.Flags().StringVar(&measurer, "measurer", pipeline.MeasurerFont, "text measurer: font (default), fixed")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input, spec, output, measurer string) error {
	opts := pipeline.Options{DataPath: input, SpecPath: spec, Measurer: measurer, Logger: c.Logger}
	in, err := pipeline.Load(ctx, opts)
	if err != nil {
		return err
	}
	h, err := pipeline.Build(in, opts)
	if err != nil {
		return err
	}
	m, err := pipeline.NewMeasurer(measurer)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewPreviewModel(interact.New(h, m), output), tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
