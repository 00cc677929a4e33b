package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	activeColor  = color.New(color.FgCyan, color.Bold)
)

func printSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", msg)
}

func printError(w io.Writer, msg string) {
	_, _ = errorColor.Fprintf(w, "✗ %s\n", msg)
}

func printLabelValue(w io.Writer, label string, value string) {
	_, _ = labelColor.Fprintf(w, "  %s: ", label)
	_, _ = valueColor.Fprintln(w, value)
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printTable pads every column to its widest cell
func printTable(w io.Writer, headers []string, rows [][]string, highlight func(row int) bool) {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	formatRow := func(cells []string) string {
		padded := make([]string, len(cells))
		for i, cell := range cells {
			padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		return "  " + strings.TrimRight(strings.Join(padded, "  "), " ")
	}

	_, _ = headerColor.Fprintln(w, formatRow(headers))

	for i, row := range rows {
		line := formatRow(row)
		if highlight != nil && highlight(i) {
			_, _ = activeColor.Fprintln(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}
}
