package cli

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	pio "github.com/matzehuels/funkyheatmap/pkg/io"
)

func (c *CLI) initCommand() *cobra.Command {
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [data]",
		Short: "Write a starter spec for a data file",
		Long: `Write an editable spec with one column per field and its inferred geom.
If the data has a "group" field, a row group is added for each of its values.

The heatmap spec format follows the output extension (toml, yaml or json). Without
--output the heatmap spec is printed as TOML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(args[0], output, force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "spec file to write")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing spec")

	return cmd
}

func (c *CLI) runInit(input, output string, force bool) error {
	t, err := pio.ImportData(input)
	if err != nil {
		return err
	}
	spec, err := pio.Starter(t)
	if err != nil {
		return err
	}

	format := pio.FormatTOML
	if output != "" {
		if format, err = pio.DetectFormat(output); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := pio.WriteSpec(&buf, spec, format); err != nil {
		return err
	}
	if output == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	if _, err := os.Stat(output); err == nil && !force {
		printWarning("%s exists, use --force to overwrite", output)
		return nil
	}
	if err := writeFile(output, buf.Bytes()); err != nil {
		return err
	}
	printSuccess("Wrote spec with %d columns", len(spec.Columns))
	printFile(output)
	printNextStep("Render it", appName+" render "+input+" --spec "+output)
	return nil
}
