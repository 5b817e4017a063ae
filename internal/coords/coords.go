// Package coords maps between linear offsets into a wrapped line of text and
// (row, column) cells of a terminal with a fixed width.
package coords

import (
	"errors"
	"fmt"
)

// ErrInvalidWidth is returned for a terminal width that is zero or negative.
var ErrInvalidWidth = errors.New("invalid terminal width")

func checkWidth(width int) error {
	if width <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	return nil
}

// ToLinearOffset converts a terminal cell into an offset into the wrapped line.
// Negative coordinates clamp to the first cell and columns past the right edge
// clamp to the last column of the row.
func ToLinearOffset(row, col, width int) (int, error) {
	if err := checkWidth(width); err != nil {
		return 0, err
	}
	if row < 0 {
		row = 0
	}
	col = clampCol(col, width)
	return row*width + col, nil
}

// ToRowCol converts an offset into the wrapped line back into a terminal cell.
// It is the inverse of ToLinearOffset for every in-range cell.
func ToRowCol(offset, width int) (row, col int, err error) {
	if err := checkWidth(width); err != nil {
		return 0, 0, err
	}
	if offset < 0 {
		return 0, 0, nil
	}
	return offset / width, offset % width, nil
}

// Back returns the cell one position before (row, col). Column 0 of a wrapped
// row moves to the last column of the previous row; the first cell stays put.
func Back(row, col, width int) (int, int, error) {
	offset, err := ToLinearOffset(row, col, width)
	if err != nil {
		return 0, 0, err
	}
	if offset == 0 {
		return 0, 0, nil
	}
	return ToRowCol(offset-1, width)
}

// Rows returns how many terminal rows a line of n cells occupies.
func Rows(n, width int) (int, error) {
	if err := checkWidth(width); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 1, nil
	}
	return (n + width - 1) / width, nil
}

func clampCol(col, width int) int {
	switch {
	case col < 0:
		return 0
	case col >= width:
		return width - 1
	default:
		return col
	}
}
