// internal/tui/table.go
package tui

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mwiater/promptsql/internal/history"
)

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	barStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
)

// ResultTable renders rows as a bordered table. Columns follow the order of
// the first row; later rows missing a column render an empty cell.
func ResultTable(rows []history.Record) string {
	if len(rows) == 0 {
		return "(no rows)"
	}
	headers := rows[0].Columns()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	for _, rec := range rows {
		cells := make([]string, len(headers))
		for i, col := range headers {
			if v, ok := rec.Get(col); ok {
				cells[i] = FormatCell(v)
			}
		}
		t.Row(cells...)
	}
	return t.Render()
}

// FormatCell renders a single decoded JSON value for display.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// ChartBars draws a horizontal bar per chart point. The first string column is
// the label and the first numeric column is the value; points without a
// numeric value are skipped.
func ChartBars(series []history.Record, width int) string {
	type point struct {
		label string
		value float64
	}

	var points []point
	var maxValue float64
	labelWidth := 0
	for _, rec := range series {
		var p point
		var haveValue, haveLabel bool
		for _, f := range rec {
			if n, ok := numeric(f.Value); ok && !haveValue {
				p.value, haveValue = n, true
				continue
			}
			if s, ok := f.Value.(string); ok && !haveLabel {
				p.label, haveLabel = s, true
			}
		}
		if !haveValue {
			continue
		}
		points = append(points, p)
		maxValue = math.Max(maxValue, math.Abs(p.value))
		labelWidth = max(labelWidth, lipgloss.Width(p.label))
	}
	if len(points) == 0 {
		return ""
	}

	barWidth := max(width-labelWidth-14, 5)
	var b strings.Builder
	for _, p := range points {
		n := 0
		if maxValue > 0 {
			n = int(math.Round(math.Abs(p.value) / maxValue * float64(barWidth)))
		}
		fmt.Fprintf(&b, "%-*s %s %g\n", labelWidth, p.label, barStyle.Render(strings.Repeat("█", n)), p.value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}
