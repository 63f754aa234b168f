package randvar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// RenderOptions controls the table produced by Render.
type RenderOptions struct {
	// Precision is the number of digits after the decimal point for
	// probabilities. -1 uses the shortest exact representation.
	Precision int

	// HideName omits the "name:" title line.
	HideName bool
}

// DefaultRenderOptions returns the options used by Distribution.String.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Precision: -1}
}

// Render draws d as a grid: outcome values as the header row, probabilities
// below, in construction order.
//
//	ξ:
//	+-----+-----+
//	|   0 |   1 |
//	+=====+=====+
//	| 0.5 | 0.5 |
//	+-----+-----+
//
// A nil distribution renders as "<nil>".
func Render[V Number](d *Distribution[V], opts RenderOptions) string {
	if d == nil {
		return d.Name()
	}
	header := make([]string, len(d.pairs))
	row := make([]string, len(d.pairs))
	widths := make([]int, len(d.pairs))
	for i, p := range d.pairs {
		header[i] = fmt.Sprint(p.Value)
		row[i] = strconv.FormatFloat(p.Probability, 'f', opts.Precision, 64)
		widths[i] = max(runewidth.StringWidth(header[i]), runewidth.StringWidth(row[i]))
	}

	var b strings.Builder
	if !opts.HideName {
		b.WriteString(d.name)
		b.WriteString(":\n")
	}
	writeRule(&b, widths, '-')
	writeCells(&b, header, widths)
	writeRule(&b, widths, '=')
	writeCells(&b, row, widths)
	writeRule(&b, widths, '-')
	return strings.TrimSuffix(b.String(), "\n")
}

func writeRule(b *strings.Builder, widths []int, fill rune) {
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat(string(fill), w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
}

func writeCells(b *strings.Builder, cells []string, widths []int) {
	b.WriteByte('|')
	for i, c := range cells {
		b.WriteByte(' ')
		b.WriteString(padLeft(c, widths[i]))
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}

// padLeft right-aligns s to the given terminal display width.
func padLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", width-sw) + s
}
