package handler

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// printTable writes headers and rows as left-aligned columns. Widths count runes so
// names with diacritics line up.
func printTable(w io.Writer, headers []string, rows [][]string) {
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(colWidths) && n > colWidths[i] {
				colWidths[i] = n
			}
		}
	}

	writeRow(w, colWidths, headers)
	for _, row := range rows {
		writeRow(w, colWidths, row)
	}
}

func writeRow(w io.Writer, colWidths []int, cells []string) {
	parts := make([]string, len(colWidths))
	for i := range colWidths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", colWidths[i]-utf8.RuneCountInString(cell))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
}
