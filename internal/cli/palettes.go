package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap/palette"
)

func (c *CLI) palettesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "palettes",
		Short: "List the built-in palettes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Numerical"))
			for _, name := range palette.BuiltinNames() {
				if colors, ok := palette.Numerical[name]; ok {
					fmt.Println(paletteLine(name, colors))
				}
			}
			fmt.Println()
			fmt.Println(StyleTitle.Render("Categorical"))
			for _, name := range palette.BuiltinNames() {
				if colors, ok := palette.Categorical[name]; ok {
					fmt.Println(paletteLine(name, colors))
				}
			}
			return nil
		},
	}
}

// paletteLine renders a name followed by one swatch per color.
func paletteLine(name string, colors []string) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(colorGray).Width(12).Render(name))
	for _, c := range colors {
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("  "))
	}
	return b.String()
}
