package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// summaryFields are the Rows entries shown on the console.
//
//nolint:gochecknoglobals // fixed set of field names
var summaryFields = map[string]bool{
	"Publisher":          true,
	"Offer":              true,
	"SKU":                true,
	"Version":            true,
	"Latest Version":     true,
	"OS Type":            true,
	"Architecture":       true,
	"Hyper-V Generation": true,
}

// PrintSummary prints a short table describing the image and the report path.
// Styling is dropped automatically when w is not a terminal.
func PrintSummary(w io.Writer, data Data, path string) {
	r := lipgloss.NewRenderer(w)
	headerStyle := r.NewStyle().Bold(true).Padding(0, 1)
	keyStyle := r.NewStyle().Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)
	pathStyle := r.NewStyle().Foreground(lipgloss.Color("10"))

	var rows [][]string
	for _, row := range data.Rows() {
		if summaryFields[row[0]] {
			rows = append(rows, []string{row[0], row[1]})
		}
	}

	t := table.New().
		Headers("FIELD", "VALUE").
		Rows(rows...).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return keyStyle
			default:
				return cellStyle
			}
		})

	fmt.Fprintln(w, t.String())
	if !data.DetailAvailable() {
		fmt.Fprintln(w, "Image detail was not available; the report uses N/A placeholders.")
	}
	fmt.Fprintf(w, "Report written to %s\n", pathStyle.Render(path))
}
