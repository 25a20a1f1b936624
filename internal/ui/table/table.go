// Package table renders listings as bordered terminal tables.
package table

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.trai.ch/rpmd/internal/ui/style"
)

// Table collects rows under fixed headers.
type Table struct {
	headers []string
	rows    [][]string
	// styleCell overrides the style of a data cell. It may be nil.
	styleCell func(row, col int, value string) (lipgloss.Style, bool)
}

// New creates a table with the given column headers.
func New(headers ...string) *Table {
	return &Table{headers: headers}
}

// Row appends a row. Missing cells are left empty and extra cells dropped.
func (t *Table) Row(cells ...string) *Table {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return t
}

// StyleCells sets a function that may restyle individual data cells.
func (t *Table) StyleCells(fn func(row, col int, value string) (lipgloss.Style, bool)) *Table {
	t.styleCell = fn
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table.
func (t *Table) String() string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(style.Border).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return style.Header
			}
			if t.styleCell != nil && row >= 0 && row < len(t.rows) && col < len(t.rows[row]) {
				if s, ok := t.styleCell(row, col, t.rows[row][col]); ok {
					return s
				}
			}
			return style.Cell
		}).
		String()
}

// Render writes the table followed by a newline.
func (t *Table) Render(w io.Writer) error {
	_, err := io.WriteString(w, t.String()+"\n")
	return err
}
