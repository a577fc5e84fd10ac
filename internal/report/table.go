package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ═══════════════════════════════════════════════════════════
// Text Tables
// 모든 출력이 동일한 표 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	doubleSeparator = "═══════════════════════════════════════════════════════════"
	separator       = "───────────────────────────────────────────────────────────"
)

// Table is a left-aligned text table sized to its widest cell
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates a table with a header row
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// AddRow appends a row; missing cells render empty
func (t *Table) AddRow(values ...string) {
	t.Rows = append(t.Rows, values)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = utf8.RuneCountInString(col)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if n := utf8.RuneCountInString(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

// Render writes header, separator line and rows
func (t *Table) Render(w io.Writer) error {
	widths := t.widths()
	var b strings.Builder

	writeRow(&b, t.Columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	b.WriteString(strings.Repeat("─", totalWidth))
	b.WriteString("\n")

	for _, row := range t.Rows {
		writeRow(&b, row, widths)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, values []string, widths []int) {
	for i, width := range widths {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		if i < len(widths)-1 {
			fmt.Fprintf(b, "%-*s  ", width, val)
		} else {
			b.WriteString(val)
		}
	}
	b.WriteString("\n")
}

// header writes a titled block
func header(b *strings.Builder, title string, kv [][2]string) {
	b.WriteString("\n")
	b.WriteString(doubleSeparator + "\n")
	fmt.Fprintf(b, "  %s\n", title)
	if len(kv) == 0 {
		b.WriteString(doubleSeparator + "\n")
		return
	}
	b.WriteString(separator + "\n")

	keyWidth := 0
	for _, pair := range kv {
		if n := utf8.RuneCountInString(pair[0]); n > keyWidth {
			keyWidth = n
		}
	}
	for _, pair := range kv {
		fmt.Fprintf(b, "  %-*s : %s\n", keyWidth, pair[0], pair[1])
	}
	b.WriteString(separator + "\n")
}
