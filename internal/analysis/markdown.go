package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Markdown renders the display table under an optional heading.
func (d *DisplayTable) Markdown(title string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(fmt.Sprintf("## %s\n\n", title))
	}
	if len(d.Columns) == 0 {
		return b.String()
	}
	b.WriteString("| ")
	for i, c := range d.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(safeName(c)))
	}
	b.WriteString(" |\n")
	b.WriteString("|")
	for range d.Columns {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range d.Rows {
		b.WriteString("| ")
		for i, v := range row {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeVal(truncate(v.String(), 80)))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// TextChart draws horizontal bars scaled to width runes, one line per point, with
// values at two decimals.
func (s *Series) TextChart(title string, width int) string {
	if width <= 0 {
		width = 40
	}
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	labelW := 0
	for _, p := range s.Points {
		if n := len([]rune(p.Label)); n > labelW {
			labelW = n
		}
	}
	if labelW > 40 {
		labelW = 40
	}
	maxV := s.Max()
	for _, p := range s.Points {
		n := 0
		if maxV > 0 && p.Value > 0 {
			n = int(math.Round(p.Value / maxV * float64(width)))
		}
		b.WriteString(fmt.Sprintf("%-*s │%s %.2f\n", labelW, truncate(p.Label, labelW), strings.Repeat("█", n), p.Value))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
