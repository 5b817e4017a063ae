package coords

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRoundTrip(t *testing.T) {
	Convey("Given terminals of several widths", t, func() {
		for _, width := range []int{1, 2, 7, 80, 133} {
			Convey(fmt.Sprintf("width %d: every cell survives offset and back", width), func() {
				for row := 0; row < 5; row++ {
					for col := 0; col < width; col++ {
						offset, err := ToLinearOffset(row, col, width)
						So(err, ShouldBeNil)
						r, c, err := ToRowCol(offset, width)
						So(err, ShouldBeNil)
						So(r, ShouldEqual, row)
						So(c, ShouldEqual, col)
					}
				}
			})
		}
	})
}

func TestOffsetsAreContiguous(t *testing.T) {
	Convey("Walking offsets visits rows left to right", t, func() {
		width := 4
		prevRow, prevCol := 0, -1
		for offset := 0; offset < 20; offset++ {
			row, col, err := ToRowCol(offset, width)
			So(err, ShouldBeNil)
			if prevCol == width-1 {
				So(row, ShouldEqual, prevRow+1)
				So(col, ShouldEqual, 0)
			} else {
				So(row, ShouldEqual, prevRow)
				So(col, ShouldEqual, prevCol+1)
			}
			prevRow, prevCol = row, col
		}
	})
}

func TestBack(t *testing.T) {
	tests := []struct {
		name             string
		row, col         int
		wantRow, wantCol int
	}{
		{"first cell clamps", 0, 0, 0, 0},
		{"same row", 0, 5, 0, 4},
		{"wraps to previous row", 2, 0, 1, 9},
		{"inside wrapped row", 1, 3, 1, 2},
	}
	for _, tt := range tests {
		row, col, err := Back(tt.row, tt.col, 10)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if row != tt.wantRow || col != tt.wantCol {
			t.Fatalf("%s: expected (%d,%d), got (%d,%d)", tt.name, tt.wantRow, tt.wantCol, row, col)
		}
	}
}

func TestInvalidWidth(t *testing.T) {
	for _, width := range []int{0, -1, -80} {
		if _, err := ToLinearOffset(0, 0, width); !errors.Is(err, ErrInvalidWidth) {
			t.Fatalf("width %d: expected ErrInvalidWidth, got %v", width, err)
		}
		if _, _, err := ToRowCol(3, width); !errors.Is(err, ErrInvalidWidth) {
			t.Fatalf("width %d: expected ErrInvalidWidth, got %v", width, err)
		}
		if _, _, err := Back(1, 1, width); !errors.Is(err, ErrInvalidWidth) {
			t.Fatalf("width %d: expected ErrInvalidWidth, got %v", width, err)
		}
	}
}

func TestClamping(t *testing.T) {
	offset, err := ToLinearOffset(-2, -3, 10)
	if err != nil || offset != 0 {
		t.Fatalf("expected 0, got %d (%v)", offset, err)
	}
	row, col, err := ToRowCol(-5, 10)
	if err != nil || row != 0 || col != 0 {
		t.Fatalf("expected (0,0), got (%d,%d) (%v)", row, col, err)
	}
}

func TestRows(t *testing.T) {
	tests := []struct {
		n, width, want int
	}{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, tt := range tests {
		got, err := Rows(tt.n, tt.width)
		if err != nil {
			t.Fatalf("Rows(%d, %d): %v", tt.n, tt.width, err)
		}
		if got != tt.want {
			t.Fatalf("Rows(%d, %d): expected %d, got %d", tt.n, tt.width, tt.want, got)
		}
	}
}
