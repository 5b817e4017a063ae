package tui

import (
	"strings"

	"github.com/verte-zerg/spede/internal/coords"
)

type cellKind int

const (
	cellPending cellKind = iota
	cellCorrect
	cellIncorrect
	cellCursor
	cellAuthor
)

// classifyCells decides how every rune of the output line is drawn. Runes
// before the cursor were typed and are compared with the quote; the part
// after the quote is the author suffix.
func classifyCells(content, display []rune, cursor int) []cellKind {
	kinds := make([]cellKind, len(display))
	for i := range display {
		switch {
		case i >= len(content):
			kinds[i] = cellAuthor
		case i == cursor:
			kinds[i] = cellCursor
		case i > cursor:
			kinds[i] = cellPending
		case display[i] == content[i]:
			kinds[i] = cellCorrect
		default:
			kinds[i] = cellIncorrect
		}
	}
	return kinds
}

func renderCell(r rune, kind cellKind) string {
	switch kind {
	case cellCorrect:
		return correctStyle.Render(string(r))
	case cellIncorrect:
		if r == ' ' {
			r = '•'
		}
		return incorrectStyle.Render(string(r))
	case cellCursor:
		return cursorStyle.Render(string(r))
	case cellAuthor:
		return authorStyle.Render(string(r))
	default:
		return pendingStyle.Render(string(r))
	}
}

// renderGrid lays the output line out on rows of width cells, the same grid
// the session uses to place its cursor.
func renderGrid(display []rune, kinds []cellKind, width int) string {
	if width <= 0 {
		width = 1
	}
	var b strings.Builder
	prevRow := 0
	for i, r := range display {
		row, _, err := coords.ToRowCol(i, width)
		if err != nil {
			break
		}
		if row != prevRow {
			b.WriteByte('\n')
			prevRow = row
		}
		b.WriteString(renderCell(r, kinds[i]))
	}
	return b.String()
}
