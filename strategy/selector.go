package strategy

import "fmt"

// Move is a one-indexed coordinate pair as players and the on-chain
// program see it. Forced is set when the move comes from the table.
type Move struct {
	Row    int  `json:"row"`
	Col    int  `json:"col"`
	Forced bool `json:"forced"`
}

// Cell converts m back to zero-indexed coordinates.
func (m Move) Cell() Cell {
	return Cell{Row: m.Row - 1, Col: m.Col - 1}
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Selector answers move queries from a built Table.
type Selector struct {
	table *Table
}

func NewSelector(t *Table) *Selector {
	return &Selector{table: t}
}

// PickForcedVictory returns the stored winning move for the board, or
// false when the player to move has no forced win.
func (s *Selector) PickForcedVictory(b RawBoard) (Move, bool, error) {
	sky, err := ToSkyline(b)
	if err != nil {
		return Move{}, false, err
	}
	cl := s.table.Lookup(sky)
	if cl.Outcome != Winning {
		return Move{}, false, nil
	}
	m := cl.Move.Move()
	m.Forced = true
	return m, true, nil
}

// PickAnyLegal returns the first legal move that is not the poison cell.
// When the poison is all that remains it is returned, since the move is
// forced. It reports false only for an empty board.
func (s *Selector) PickAnyLegal(b RawBoard) (Move, bool, error) {
	sky, err := ToSkyline(b)
	if err != nil {
		return Move{}, false, err
	}
	moves := LegalMoves(sky)
	for _, c := range moves {
		if c != Poison {
			return c.Move(), true, nil
		}
	}
	if len(moves) > 0 {
		return Poison.Move(), true, nil
	}
	return Move{}, false, nil
}

// Choose tries PickForcedVictory and falls back to PickAnyLegal.
func (s *Selector) Choose(b RawBoard) (Move, bool, error) {
	m, ok, err := s.PickForcedVictory(b)
	if err != nil || ok {
		return m, ok, err
	}
	return s.PickAnyLegal(b)
}

// Classify returns the skyline of the board and its classification.
func (s *Selector) Classify(b RawBoard) (Skyline, Classification, error) {
	sky, err := ToSkyline(b)
	if err != nil {
		return Skyline{}, Classification{}, err
	}
	return sky, s.table.Lookup(sky), nil
}

// ClassifyIndex is Classify for a packed index. Indexes that no valid
// skyline packs to are rejected with ErrMalformedBoard.
func (s *Selector) ClassifyIndex(idx Index) (Skyline, Classification, error) {
	cl := s.table.LookupIndex(idx)
	if cl.Outcome == Unknown {
		return Skyline{}, cl, fmt.Errorf("%w: index %#x is not a shape", ErrMalformedBoard, uint32(idx))
	}
	return Decode(idx), cl, nil
}

// PickForcedVictory queries the default table.
func PickForcedVictory(b RawBoard) (Move, bool, error) {
	return NewSelector(Default()).PickForcedVictory(b)
}

// PickAnyLegal needs no table and never triggers a build.
func PickAnyLegal(b RawBoard) (Move, bool, error) {
	return (&Selector{}).PickAnyLegal(b)
}

// Choose queries the default table.
func Choose(b RawBoard) (Move, bool, error) {
	return NewSelector(Default()).Choose(b)
}
