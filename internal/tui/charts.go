package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/saasdash/pkg/domain"
)

// barChart renders one horizontal bar per value, scaled to the largest value.
// Negative values draw as empty bars.
func barChart(labels []string, values []float64, width int, format func(float64) string) string {
	if len(values) == 0 {
		return "  " + dimStyle.Render("No data.") + "\n"
	}
	labelW := 0
	for _, l := range labels {
		labelW = max(labelW, lipgloss.Width(l))
	}
	valueStrs := make([]string, len(values))
	valueW := 0
	peak := 0.0
	for i, v := range values {
		valueStrs[i] = format(v)
		valueW = max(valueW, len(valueStrs[i]))
		peak = max(peak, v)
	}
	barW := width - labelW - valueW - 6
	if barW < 4 {
		barW = 4
	}

	var b strings.Builder
	for i, v := range values {
		n := 0
		if peak > 0 && v > 0 {
			n = int(v / peak * float64(barW))
			if n == 0 {
				n = 1
			}
		}
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		fmt.Fprintf(&b, "  %s %s%s %s\n",
			dimStyle.Render(fmt.Sprintf("%-*s", labelW, label)),
			chartBarStyle.Render(strings.Repeat("█", n)),
			strings.Repeat(" ", barW-n),
			normalStyle.Render(fmt.Sprintf("%*s", valueW, valueStrs[i])))
	}
	return b.String()
}

// revenueSeries returns chart labels and values in server order.
func revenueSeries(records []domain.RevenueRecord) ([]string, []float64) {
	labels := make([]string, len(records))
	values := make([]float64, len(records))
	for i, r := range records {
		labels[i] = formatDate(r.Date)
		values[i] = r.Revenue
	}
	return labels, values
}

// sessionsPerDay counts session starts per local calendar day, oldest first.
func sessionsPerDay(sessions []domain.SessionRecord) ([]string, []float64) {
	counts := map[string]float64{}
	for _, s := range sessions {
		counts[formatDate(s.StartTime)]++
	}
	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)
	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = counts[d]
	}
	return days, values
}

// formatMoney renders an amount the way the revenue table shows it: no
// trailing zeros, so 1200 is "$1200" and 99.5 is "$99.5".
func formatMoney(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// renderGrid draws a plain column-aligned table. style, when non-nil, may
// restyle a padded cell.
func renderGrid(headers []string, rows [][]string, style func(row, col int, cell string) string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i := range headers {
			if i < len(r) {
				widths[i] = max(widths[i], lipgloss.Width(r[i]))
			}
		}
	}

	var b strings.Builder
	b.WriteString(" ")
	for i, h := range headers {
		b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("%-*s", widths[i], h)) + " ")
	}
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString("  " + dimStyle.Render("No records.") + "\n")
		return b.String()
	}
	for ri, r := range rows {
		b.WriteString(" ")
		for i := range headers {
			cell := ""
			if i < len(r) {
				cell = r[i]
			}
			padded := cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if style != nil {
				padded = style(ri, i, padded)
			} else {
				padded = normalStyle.Render(padded)
			}
			b.WriteString(" " + padded + " ")
		}
		b.WriteString("\n")
	}
	return b.String()
}
