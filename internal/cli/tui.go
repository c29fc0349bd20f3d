package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/column"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/interact"
	"github.com/matzehuels/funkyheatmap/pkg/heatmap/sink"
	tbl "github.com/matzehuels/funkyheatmap/pkg/table"
)

// headerRow is the row index lipgloss/table passes for the header.
const headerRow = -1

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PreviewModel - Interactive heatmap table
// =============================================================================

// writtenMsg reports the result of writing the SVG.
type writtenMsg struct {
	path string
	err  error
}

// PreviewModel is the bubbletea model for browsing and sorting a heatmap in
// the terminal. Sorting goes through the same controller as a click on a
// column label in the SVG.
type PreviewModel struct {
	Ctrl   *interact.Controller
	Output string // SVG path written with "w"
	Cursor int    // selected column
	Offset int    // first visible row
	Height int
	Status string

	write func(path string, data []byte) error
}

// NewPreviewModel creates a preview of the heatmap held by ctrl.
func NewPreviewModel(ctrl *interact.Controller, output string) PreviewModel {
	return PreviewModel{Ctrl: ctrl, Output: output, Height: 15, write: writeFile}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	h := m.Ctrl.Heatmap()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right", "l":
			if m.Cursor < len(h.Columns)-1 {
				m.Cursor++
			}
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "down", "j":
			if m.Offset < h.Table.Len()-m.Height {
				m.Offset++
			}
		case "enter", " ":
			col := h.Columns[m.Cursor]
			state, err := m.Ctrl.Sort(col.ID)
			if err != nil {
				m.Status = err.Error()
				return m, nil
			}
			m.Offset = 0
			m.Status = fmt.Sprintf("sorted by %s (%s)", col.Name, state)
		case "w":
			m.Status = "writing " + m.Output + "..."
			return m, m.writeSVG()
		}
	case writtenMsg:
		if msg.err != nil {
			m.Status = msg.err.Error()
		} else {
			m.Status = "wrote " + msg.path
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// writeSVG renders the current order and writes it to m.Output.
func (m PreviewModel) writeSVG() tea.Cmd {
	ctrl, path, write := m.Ctrl, m.Output, m.write
	return func() tea.Msg {
		res, err := ctrl.Render(context.Background())
		if err != nil {
			return writtenMsg{path: path, err: err}
		}
		data := sink.RenderSVG(res, sink.WithXMLHeader(), sink.WithInteraction())
		return writtenMsg{path: path, err: write(path, data)}
	}
}

func (m PreviewModel) View() string {
	h := m.Ctrl.Heatmap()
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Heatmap Preview"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ column  ⏎ sort  ↑/↓ scroll  w write svg  q quit"))
	b.WriteString("\n\n")

	order := m.Ctrl.Order()
	end := min(m.Offset+m.Height, len(order))

	grouped := h.Rows.Active
	var headers []string
	if grouped {
		headers = append(headers, "Group")
	}
	for _, col := range h.Columns {
		headers = append(headers, col.Name+sortMarker(col.SortState()))
	}

	rows := make([][]string, 0, end-m.Offset)
	for _, i := range order[m.Offset:end] {
		row := h.Table.Row(i)
		var cells []string
		if grouped {
			cells = append(cells, groupName(h, i))
		}
		for _, col := range h.Columns {
			cells = append(cells, cellText(col, row, h.Options.Precision))
		}
		rows = append(rows, cells)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	first := 0
	if grouped {
		first = 1
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			selected := col-first == m.Cursor
			switch {
			case row == headerRow && selected:
				return listSelectedStyle
			case row == headerRow:
				return headerStyle
			case selected:
				return StyleHighlight
			case col < first:
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", m.Offset+1, end, len(order))))
	if m.Status != "" {
		b.WriteString("  " + StyleValue.Render(m.Status))
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func sortMarker(s column.SortState) string {
	switch s {
	case column.Ascending:
		return " ▲"
	case column.Descending:
		return " ▼"
	}
	return ""
}

// cellText is the terminal rendering of one cell: the label accessor if the
// column has one, the formatted value otherwise.
func cellText(col *column.Column, row tbl.Record, precision int) string {
	if col.Label != "" {
		return col.GetLabel(row, precision)
	}
	switch v := col.GetValue(row).(type) {
	case []any:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = tbl.Format(x, precision)
		}
		return strings.Join(parts, " ")
	case float64:
		if math.IsNaN(v) {
			return "-"
		}
		return tbl.FormatNumber(v, precision)
	default:
		return tbl.Format(v, precision)
	}
}

// groupName returns the display label of row i's group.
func groupName(h *heatmap.Heatmap, i int) string {
	key := h.Rows.Keys[i]
	for _, g := range h.Rows.Groups {
		if g.Group == key {
			return g.Level1
		}
	}
	return key
}
