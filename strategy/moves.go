package strategy

import "fmt"

// Cell is a zero-indexed board coordinate.
type Cell struct {
	Row int
	Col int
}

// Poison is the cell whose capture loses the game.
var Poison = Cell{Row: PoisonRow, Col: PoisonCol}

// Move converts c to the one-indexed coordinates shown to players.
func (c Cell) Move() Move {
	return Move{Row: c.Row + 1, Col: c.Col + 1}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// LegalMoves lists every remaining cell, by ascending row and then
// ascending column. Classification tie-breaks depend on this order.
func LegalMoves(s Skyline) []Cell {
	moves := make([]Cell, 0, s.Cells())
	for r := 0; r < Rows; r++ {
		for c := Cols - int(s[r]); c < Cols; c++ {
			moves = append(moves, Cell{Row: r, Col: c})
		}
	}
	return moves
}

// Apply eats the cell and everything above and to the left of it.
func Apply(s Skyline, c Cell) (Skyline, error) {
	if !s.Has(c) {
		return s, fmt.Errorf("%w: %s is not on board %s", ErrIllegalMove, c, s)
	}
	keep := uint8(Cols - 1 - c.Col)
	next := s
	for r := 0; r <= c.Row; r++ {
		if next[r] > keep {
			next[r] = keep
		}
	}
	return next, nil
}

// IsTerminal reports whether the poison cell is the only cell left.
func IsTerminal(s Skyline) bool {
	return s == PoisonOnly
}
