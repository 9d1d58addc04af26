package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays rows out in space-separated columns sized to the widest
// cell in terminal cells. Columns in rightAlignCols are padded on the left.
func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	widths := columnWidths(headers, rows)
	if len(widths) == 0 {
		return nil
	}
	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, joinCells(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, joinCells(row, widths, rightAlignCols))
	}
	return lines
}

func columnWidths(headers []string, rows [][]string) []int {
	var widths []int
	grow := func(cells []string) {
		for i, cell := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	grow(headers)
	for _, row := range rows {
		grow(row)
	}
	return widths
}

func joinCells(cells []string, widths []int, rightAlignCols map[int]bool) string {
	padded := make([]string, len(widths))
	for i, width := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if rightAlignCols[i] {
			padded[i] = runewidth.FillLeft(cell, width)
		} else {
			padded[i] = runewidth.FillRight(cell, width)
		}
	}
	return strings.Join(padded, " ")
}
