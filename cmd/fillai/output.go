package main

import (
	"fmt"
	"io"
	"strings"

	"fillai-backend/domain/core/valueobjects"

	"github.com/fatih/color"
)

var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
)

// nodeColors follow the node type palette of the graph.
var nodeColors = map[string]*color.Color{
	valueobjects.NodeTypeCenter.String():  color.New(color.FgHiMagenta),
	valueobjects.NodeTypePrimary.String(): color.New(color.FgHiBlue),
	valueobjects.NodeTypeSub.String():     color.New(color.FgCyan),
}

func banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s: %s\n\n", brand.Sprint("fillai"), subtitle)
}

// table prints an aligned table. Widths are measured on the plain text so
// colored cells still line up.
func table(w io.Writer, headers []string, rows [][]string, paint func(row, col int, cell string) string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var head, sep strings.Builder
	head.WriteString("  ")
	sep.WriteString("  ")
	for i, h := range headers {
		fmt.Fprintf(&head, "%-*s  ", widths[i], h)
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	fmt.Fprintln(w, subtle.Sprint(strings.TrimRight(head.String(), " ")))
	fmt.Fprintln(w, subtle.Sprint(strings.TrimRight(sep.String(), " ")))

	for r, row := range rows {
		var line strings.Builder
		line.WriteString("  ")
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			padded := fmt.Sprintf("%-*s", widths[i], cell)
			if paint != nil {
				padded = paint(r, i, cell) + strings.Repeat(" ", widths[i]-len(cell))
			}
			line.WriteString(padded + "  ")
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func statusIcon(ok bool) string {
	if ok {
		return good.Sprint("✓")
	}
	return warn.Sprint("~")
}
