// Package types contains shared data structures for chomp-local.
package types

import (
	"encoding/json"
	"fmt"

	"chomp-local/strategy"
)

// Side identifies a player: 1 moves first, 2 moves second.
const (
	SideFirst  = 1
	SideSecond = 2
)

// BoardState represents the complete state of a Chomp board.
// Cells is indexed as Cells[row][col]; true means the cell is still there.
type BoardState struct {
	MoveNumber   int                                `json:"move_number"`
	PlayerToMove int                                `json:"player_to_move"` // 1=first, 2=second
	Phase        string                             `json:"phase"`          // "playing", "finished"
	Cells        [strategy.Rows][strategy.Cols]bool `json:"cells"`
	Outcome      string                             `json:"outcome"`
	Winner       int                                `json:"winner"`
	LastMove     BoardPos                           `json:"last_move"`
}

// Finished returns true if the game is over.
func (b *BoardState) Finished() bool {
	return b.Phase == "finished"
}

// Height returns the board height.
func (b *BoardState) Height() int {
	return strategy.Rows
}

// Width returns the board width.
func (b *BoardState) Width() int {
	return strategy.Cols
}

// Present reports whether the cell is still on the board.
func (b *BoardState) Present(row, col int) bool {
	return b.Cells[row][col]
}

// IsPoison reports whether (x, y) is the poison cell.
func (b *BoardState) IsPoison(x, y int) bool {
	return x == strategy.PoisonCol && y == strategy.PoisonRow
}

// Copy returns a deep copy of the board state.
func (b *BoardState) Copy() *BoardState {
	c := *b
	return &c
}

// SetSkyline replaces the cells with the shape described by s.
func (b *BoardState) SetSkyline(s strategy.Skyline) {
	b.Cells = s.Grid()
}

// BoardPos represents a position on the board. X is the column, Y the row,
// both zero-indexed; -1 means no position.
type BoardPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// UnmarshalJSON allows BoardPos to be unmarshaled from a JSON array [x, y]
// as well as from an object.
func (p *BoardPos) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err == nil {
		if len(v) != 2 {
			return fmt.Errorf("board position needs 2 values, got %d", len(v))
		}
		p.X, p.Y = v[0], v[1]
		return nil
	}
	var obj struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.X, p.Y = obj.X, obj.Y
	return nil
}

// Cell converts p to a strategy cell.
func (p BoardPos) Cell() strategy.Cell {
	return strategy.Cell{Row: p.Y, Col: p.X}
}

// NewBoardState creates a full board with the first player to move.
func NewBoardState() *BoardState {
	return &BoardState{
		MoveNumber:   0,
		PlayerToMove: SideFirst,
		Phase:        "playing",
		Cells:        strategy.Full.Grid(),
		LastMove:     BoardPos{X: -1, Y: -1},
	}
}

// OtherSide returns the opponent of side.
func OtherSide(side int) int {
	if side == SideFirst {
		return SideSecond
	}
	return SideFirst
}
