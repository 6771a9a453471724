// Package strategy solves the 5x8 game of Chomp.
//
// Cells are addressed zero-indexed as (row, col) with row 0 at the top and
// col 0 at the left. The poison cell is the bottom-right corner. Eating a
// cell removes it together with every cell above and to the left of it, so
// the cells left in each row are always the rightmost ones.
package strategy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	Rows = 5
	Cols = 8

	PoisonRow = Rows - 1
	PoisonCol = Cols - 1

	// fieldBits is the width of one row count inside an Index.
	fieldBits = 4
	fieldMask = 1<<fieldBits - 1

	// TableSize is the size of the dense index space.
	TableSize = 1 << (fieldBits * Rows)
)

var (
	ErrMalformedBoard = errors.New("malformed board")
	ErrIllegalMove    = errors.New("illegal move")
)

// RawBoard is an observed board. Present reports whether the cell at the
// zero-indexed row and column has not been eaten yet.
type RawBoard interface {
	Present(row, col int) bool
}

// Grid is a RawBoard stored cell by cell. Grid[r][c] is true while the
// cell is on the board.
type Grid [Rows][Cols]bool

func (g Grid) Present(row, col int) bool {
	return g[row][col]
}

// Mask is the compact board layout used by the on-chain game account:
// one byte per row, a set bit marks an eaten cell and the most significant
// bit is column 0.
type Mask [Rows]uint8

func (m Mask) Present(row, col int) bool {
	return m[row]&(0x80>>col) == 0
}

// ParseMask reads a mask written as comma-separated hex bytes, top row
// first, e.g. "ff,ff,ff,ff,fe".
func ParseMask(s string) (Mask, error) {
	var m Mask
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != Rows {
		return m, fmt.Errorf("mask needs %d rows, got %d", Rows, len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 16, 8)
		if err != nil {
			return m, fmt.Errorf("mask row %d: %w", i+1, err)
		}
		m[i] = uint8(v)
	}
	return m, nil
}

func (m Mask) String() string {
	parts := make([]string, Rows)
	for i, v := range m {
		parts[i] = fmt.Sprintf("%02x", v)
	}
	return strings.Join(parts, ",")
}

// Skyline is the number of cells left in each row, top row first.
// A valid skyline never decreases from top to bottom.
type Skyline [Rows]uint8

// Index is the packed form of a Skyline. Each row count takes a 4-bit
// field; row 0 is the most significant field and row 4 the least, so the
// full board packs to 0x88888.
type Index uint32

var (
	Full       = Skyline{Cols, Cols, Cols, Cols, Cols}
	PoisonOnly = Skyline{0, 0, 0, 0, 1}
	Empty      = Skyline{}
)

// ToSkyline summarises a raw board. Boards whose remaining cells do not
// form a staircase anchored at the poison corner are rejected.
func ToSkyline(b RawBoard) (Skyline, error) {
	var s Skyline
	for r := 0; r < Rows; r++ {
		n := 0
		for c := Cols - 1; c >= 0 && b.Present(r, c); c-- {
			n++
		}
		for c := Cols - 1 - n; c >= 0; c-- {
			if b.Present(r, c) {
				return Skyline{}, fmt.Errorf("%w: row %d column %d is present left of an eaten cell", ErrMalformedBoard, r+1, c+1)
			}
		}
		s[r] = uint8(n)
		if r > 0 && s[r] < s[r-1] {
			return Skyline{}, fmt.Errorf("%w: row %d has %d cells but row %d above it has %d", ErrMalformedBoard, r+1, s[r], r, s[r-1])
		}
	}
	return s, nil
}

// Valid reports whether s is a staircase within bounds.
func (s Skyline) Valid() bool {
	for r := 0; r < Rows; r++ {
		if s[r] > Cols {
			return false
		}
		if r > 0 && s[r] < s[r-1] {
			return false
		}
	}
	return true
}

func (s Skyline) Index() Index {
	var idx Index
	for _, n := range s {
		idx = idx<<fieldBits | Index(n)
	}
	return idx
}

// Decode unpacks an index produced by Skyline.Index.
func Decode(idx Index) Skyline {
	var s Skyline
	for r := Rows - 1; r >= 0; r-- {
		s[r] = uint8(idx & fieldMask)
		idx >>= fieldBits
	}
	return s
}

// Cells returns the number of cells left on the board.
func (s Skyline) Cells() int {
	total := 0
	for _, n := range s {
		total += int(n)
	}
	return total
}

// Has reports whether the cell is still on the board.
func (s Skyline) Has(c Cell) bool {
	if c.Row < 0 || c.Row >= Rows || c.Col < 0 || c.Col >= Cols {
		return false
	}
	return c.Col >= Cols-int(s[c.Row])
}

// Present makes a Skyline usable wherever a RawBoard is expected.
func (s Skyline) Present(row, col int) bool {
	return s.Has(Cell{Row: row, Col: col})
}

// Grid expands s back into a cell grid.
func (s Skyline) Grid() Grid {
	var g Grid
	for r := 0; r < Rows; r++ {
		for c := Cols - int(s[r]); c < Cols; c++ {
			g[r][c] = true
		}
	}
	return g
}

// Mask expands s into the on-chain byte layout.
func (s Skyline) Mask() Mask {
	var m Mask
	for r := 0; r < Rows; r++ {
		eaten := Cols - int(s[r])
		m[r] = uint8(uint16(0xff00) >> eaten)
	}
	return m
}

func (s Skyline) String() string {
	parts := make([]string, Rows)
	for i, n := range s {
		parts[i] = fmt.Sprint(n)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// EachSkyline calls fn for every valid skyline in ascending index order
// and stops early when fn returns false.
func EachSkyline(fn func(Skyline) bool) {
	var s Skyline
	var walk func(row int, lo uint8) bool
	walk = func(row int, lo uint8) bool {
		if row == Rows {
			return fn(s)
		}
		for n := lo; n <= Cols; n++ {
			s[row] = n
			if !walk(row+1, n) {
				return false
			}
		}
		return true
	}
	walk(0, 0)
}
