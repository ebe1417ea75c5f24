package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table renders rows as left-aligned, space-separated columns
type Table struct {
	headers []string
	rows    [][]string
	styles  map[int]func(string) string
}

// NewTable creates a table with the given column headers
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		styles:  make(map[int]func(string) string),
	}
}

// AddRow appends a row; missing cells render empty, extra cells are dropped
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// StyleColumn applies style to every cell of column idx after padding
func (t *Table) StyleColumn(idx int, style func(string) string) {
	t.styles[idx] = style
}

// Render writes the table to w
func (t *Table) Render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	colors := newPalette(w)
	fmt.Fprintln(w, colors.bold.Sprint(t.formatRow(t.headers, widths, nil)))
	for _, row := range t.rows {
		fmt.Fprintln(w, t.formatRow(row, widths, t.styles))
	}
}

func (t *Table) formatRow(cells []string, widths []int, styles map[int]func(string) string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		padded := cell
		if i < len(cells)-1 {
			padded = cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
		}
		if style, ok := styles[i]; ok {
			padded = style(padded)
		}
		parts[i] = padded
	}
	return strings.Join(parts, "  ")
}

// StatusStyle colors run status values for w
func StatusStyle(w io.Writer) func(string) string {
	colors := newPalette(w)
	return func(s string) string {
		switch strings.TrimSpace(s) {
		case "completed":
			return colors.success.Sprint(s)
		case "completed_with_warnings":
			return colors.warn.Sprint(s)
		case "failed":
			return colors.fail.Sprint(s)
		default:
			return s
		}
	}
}
