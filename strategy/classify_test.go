package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalMovesOrder(t *testing.T) {
	moves := LegalMoves(Skyline{0, 0, 0, 1, 2})
	assert.Equal(t, []Cell{{3, 7}, {4, 6}, {4, 7}}, moves)
	assert.Len(t, LegalMoves(Full), 40)
	assert.Empty(t, LegalMoves(Empty))
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		from Skyline
		cell Cell
		want Skyline
	}{
		{"top-left corner", Full, Cell{0, 0}, Skyline{7, 8, 8, 8, 8}},
		{"middle", Full, Cell{2, 3}, Skyline{4, 4, 4, 8, 8}},
		{"bottom-left corner", Full, Cell{4, 0}, Skyline{7, 7, 7, 7, 7}},
		{"poison", PoisonOnly, Poison, Empty},
		{"rows above already short", Skyline{1, 2, 3, 8, 8}, Cell{3, 5}, Skyline{1, 2, 2, 2, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.from, tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestApplyIllegal(t *testing.T) {
	_, err := Apply(PoisonOnly, Cell{0, 0})
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = Apply(Full, Cell{Rows, 0})
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = Apply(Skyline{0, 0, 0, 2, 2}, Cell{3, 5})
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestEveryMoveShrinksBoard(t *testing.T) {
	EachSkyline(func(s Skyline) bool {
		for _, m := range LegalMoves(s) {
			child, err := Apply(s, m)
			require.NoError(t, err)
			require.Less(t, child.Cells(), s.Cells(), "%s after %s", s, m)
		}
		return true
	})
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(PoisonOnly))
	assert.False(t, IsTerminal(Empty))
	assert.False(t, IsTerminal(Skyline{0, 0, 0, 0, 2}))
}

func TestClassifyKnownPositions(t *testing.T) {
	table := Build()
	tests := []struct {
		name    string
		s       Skyline
		outcome Outcome
		move    Cell
	}{
		{"poison only", PoisonOnly, Losing, Cell{}},
		{"empty", Empty, Finished, Cell{}},
		{"two in bottom row", Skyline{0, 0, 0, 0, 2}, Winning, Cell{4, 6}},
		{"last column", Skyline{1, 1, 1, 1, 1}, Winning, Cell{3, 7}},
		{"symmetric L", Skyline{0, 0, 0, 1, 2}, Losing, Cell{}},
		{"two by two", Skyline{0, 0, 0, 2, 2}, Winning, Cell{3, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := table.Lookup(tt.s)
			assert.Equal(t, tt.outcome, cl.Outcome)
			if tt.outcome == Winning {
				assert.Equal(t, tt.move, cl.Move)
			}
		})
	}
}

func TestFullBoardIsWinning(t *testing.T) {
	cl := Build().Lookup(Full)
	require.Equal(t, Winning, cl.Outcome)
	assert.True(t, Full.Has(cl.Move))
	assert.NotEqual(t, Poison, cl.Move)
}

func TestTableCoversEveryShape(t *testing.T) {
	table := Build()
	assert.Equal(t, 1287, table.Len())
	EachSkyline(func(s Skyline) bool {
		assert.NotEqual(t, Unknown, table.Lookup(s).Outcome, "skyline %s", s)
		return true
	})
	assert.Equal(t, Unknown, table.LookupIndex(TableSize).Outcome)
	assert.Equal(t, Unknown, table.LookupIndex(Index(0x99999)).Outcome)
	assert.Equal(t, Finished, table.LookupIndex(Empty.Index()).Outcome)
	assert.Equal(t, Unknown, table.Lookup(Skyline{3, 2, 1, 0, 0}).Outcome)
}

func TestBuildIsDeterministic(t *testing.T) {
	a, b := Build(), Build()
	assert.Equal(t, a.book, b.book)
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestWinningAndLosingAreConsistent(t *testing.T) {
	table := Build()
	EachSkyline(func(s Skyline) bool {
		cl := table.Lookup(s)
		switch cl.Outcome {
		case Winning:
			child, err := Apply(s, cl.Move)
			require.NoError(t, err)
			assert.Equal(t, Losing, table.Lookup(child).Outcome, "%s after %s", s, cl.Move)
		case Losing:
			if IsTerminal(s) {
				return true
			}
			for _, m := range LegalMoves(s) {
				child, err := Apply(s, m)
				require.NoError(t, err)
				if m == Poison {
					assert.Equal(t, Finished, table.Lookup(child).Outcome)
					continue
				}
				assert.Equal(t, Winning, table.Lookup(child).Outcome, "%s after %s", s, m)
			}
		}
		return true
	})
}

func TestStoredMoveIsSmallestWinningMove(t *testing.T) {
	table := Build()
	EachSkyline(func(s Skyline) bool {
		cl := table.Lookup(s)
		if cl.Outcome != Winning {
			return true
		}
		for _, m := range LegalMoves(s) {
			child, _ := Apply(s, m)
			if table.Lookup(child).Outcome == Losing {
				assert.Equal(t, m, cl.Move, "skyline %s", s)
				break
			}
		}
		return true
	})
}

func TestVerify(t *testing.T) {
	table := Build()
	require.NoError(t, Verify(context.Background(), table))

	broken := &Table{book: append([]entry(nil), table.book...)}
	broken.book[Full.Index()] = entryLosing
	broken.book[Skyline{0, 0, 0, 0, 2}.Index()] = winningEntry(Cell{4, 7})
	err := Verify(context.Background(), broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[8 8 8 8 8]")
	assert.Contains(t, err.Error(), "[0 0 0 0 2]")
}

func TestVerifyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Verify(ctx, Build()), context.Canceled)
}
