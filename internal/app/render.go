package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rpmd/internal/ui/style"
	"go.trai.ch/rpmd/internal/ui/table"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// cell renders a reply value the way a table shows it. Numbers arrive as
// float64 and print without a fraction when they are whole.
func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = cell(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// mapTable renders rows with one column per key.
func mapTable(headers, keys []string, rows []map[string]any) *table.Table {
	t := table.New(headers...)
	for _, row := range rows {
		cells := make([]string, len(keys))
		for i, key := range keys {
			cells[i] = cell(row[key])
		}
		t.Row(cells...)
	}
	return t
}

// actionStyle colors the action column of plan tables.
func actionStyle(column int) func(row, col int, value string) (lipgloss.Style, bool) {
	return func(_, col int, value string) (lipgloss.Style, bool) {
		if col != column {
			return lipgloss.Style{}, false
		}
		return style.Cell.Foreground(style.ActionColor(value)), true
	}
}
