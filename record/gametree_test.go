package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chomp-local/strategy"
)

var (
	moveA = Entry{Side: 1, Cell: strategy.Cell{Row: 4, Col: 0}}
	moveB = Entry{Side: 2, Cell: strategy.Cell{Row: 3, Col: 7}}
	moveC = Entry{Side: 1, Cell: strategy.Cell{Row: 4, Col: 6}}
)

func TestNewGameTree(t *testing.T) {
	tree := NewGameTree()
	require.NotNil(t, tree.Root)
	assert.Same(t, tree.Root, tree.Current)
	assert.Equal(t, Entry{}, tree.Root.Move)
	assert.Equal(t, 1, tree.SideToMove())
}

func TestAddMoveDedupAndBranching(t *testing.T) {
	tree := NewGameTree()
	n1 := tree.AddMove(moveA)
	assert.Same(t, tree.Root, n1.Parent)
	tree.Back()
	n2 := tree.AddMove(moveA)
	assert.Same(t, n1, n2)
	assert.Len(t, tree.Root.Children, 1)

	tree.Back()
	other := Entry{Side: 1, Cell: strategy.Cell{Row: 0, Col: 0}}
	tree.AddMove(other)
	require.Len(t, tree.Root.Children, 2)
	assert.Equal(t, moveA, tree.Root.Children[0].Move)
	assert.Equal(t, 2, tree.NumVariations())
	assert.Equal(t, 1, tree.VariationIndex())

	assert.True(t, tree.NextVariation())
	assert.Equal(t, moveA, tree.Current.Move)
	assert.True(t, tree.NextVariation())
	assert.Equal(t, other, tree.Current.Move)
}

func TestNavigation(t *testing.T) {
	tree := NewGameTreeFromEntries([]Entry{moveA, moveB, moveC})
	assert.Same(t, tree.Root, tree.Current)
	assert.False(t, tree.Back())
	assert.False(t, tree.NextVariation())
	assert.Equal(t, -1, tree.VariationIndex())
	assert.Equal(t, 0, tree.NumVariations())

	assert.True(t, tree.Forward(0))
	assert.False(t, tree.Forward(1))
	assert.Equal(t, 2, tree.SideToMove())

	tree.ToEnd()
	assert.False(t, tree.HasChildren())
	assert.Equal(t, []Entry{moveA, moveB, moveC}, tree.PathFromRoot())

	tree.ToStart()
	assert.Empty(t, tree.PathFromRoot())
}

func TestSkyline(t *testing.T) {
	tree := NewGameTreeFromEntries([]Entry{moveA, moveB, moveC})
	sky, err := tree.Skyline()
	require.NoError(t, err)
	assert.Equal(t, strategy.Full, sky)

	tree.ToEnd()
	sky, err = tree.Skyline()
	require.NoError(t, err)
	assert.Equal(t, strategy.PoisonOnly, sky)
}

func TestPlay(t *testing.T) {
	tree := NewGameTree()
	require.NoError(t, tree.Play(moveA.Cell))
	assert.Equal(t, moveA, tree.Current.Move)

	err := tree.Play(strategy.Cell{Row: 0, Col: 0})
	assert.ErrorIs(t, err, strategy.ErrIllegalMove)
	assert.Equal(t, moveA, tree.Current.Move)

	require.NoError(t, tree.Play(moveB.Cell))
	assert.Equal(t, moveB, tree.Current.Move)
	require.NoError(t, tree.Play(strategy.Poison))

	err = tree.Play(strategy.Poison)
	assert.ErrorIs(t, err, strategy.ErrIllegalMove)
}
