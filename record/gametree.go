package record

import (
	"fmt"

	"chomp-local/strategy"
)

// GameNode is a single position in the game tree.
type GameNode struct {
	Move     Entry // zero for root
	Parent   *GameNode
	Children []*GameNode // first child = main line
}

// GameTree is an in-memory tree of moves used to step through a recorded
// game and to try alternative lines from any position of it.
type GameTree struct {
	Root    *GameNode
	Current *GameNode
}

// NewGameTree creates a game tree with an empty root node.
func NewGameTree() *GameTree {
	root := &GameNode{}
	return &GameTree{Root: root, Current: root}
}

// NewGameTreeFromEntries builds the main line from recorded moves and
// leaves the cursor at the root.
func NewGameTreeFromEntries(moves []Entry) *GameTree {
	t := NewGameTree()
	for _, m := range moves {
		t.AddMove(m)
	}
	t.Current = t.Root
	return t
}

// AddMove adds a child move to the current node and advances to it.
// An existing child with the same move is reused.
func (t *GameTree) AddMove(m Entry) *GameNode {
	for _, child := range t.Current.Children {
		if child.Move == m {
			t.Current = child
			return child
		}
	}
	node := &GameNode{Move: m, Parent: t.Current}
	t.Current.Children = append(t.Current.Children, node)
	t.Current = node
	return node
}

// SideToMove returns the side due to move at the current node.
func (t *GameTree) SideToMove() int {
	if t.Current == t.Root || t.Current.Move.Side == 2 {
		return 1
	}
	return 2
}

// Play validates c against the current shape and adds it as a move by the
// side to move.
func (t *GameTree) Play(c strategy.Cell) error {
	sky, err := t.Skyline()
	if err != nil {
		return err
	}
	if sky == strategy.Empty {
		return fmt.Errorf("%w: game is over", strategy.ErrIllegalMove)
	}
	if _, err := strategy.Apply(sky, c); err != nil {
		return err
	}
	t.AddMove(Entry{Side: t.SideToMove(), Cell: c})
	return nil
}

// Back moves current to its parent. Returns false if already at root.
func (t *GameTree) Back() bool {
	if t.Current == t.Root {
		return false
	}
	t.Current = t.Current.Parent
	return true
}

// Forward moves current to children[idx]. Returns false if no such child.
func (t *GameTree) Forward(idx int) bool {
	if idx < 0 || idx >= len(t.Current.Children) {
		return false
	}
	t.Current = t.Current.Children[idx]
	return true
}

// ToStart moves current to the root.
func (t *GameTree) ToStart() {
	t.Current = t.Root
}

// ToEnd follows the first child until a leaf.
func (t *GameTree) ToEnd() {
	for t.Forward(0) {
	}
}

// NextVariation switches to the next sibling, wrapping around.
func (t *GameTree) NextVariation() bool {
	if t.Current.Parent == nil {
		return false
	}
	siblings := t.Current.Parent.Children
	if len(siblings) < 2 {
		return false
	}
	t.Current = siblings[(t.VariationIndex()+1)%len(siblings)]
	return true
}

// NumVariations returns the number of siblings at the current node's level,
// or 0 at the root.
func (t *GameTree) NumVariations() int {
	if t.Current.Parent == nil {
		return 0
	}
	return len(t.Current.Parent.Children)
}

// VariationIndex returns which child of its parent the current node is,
// or -1 at the root.
func (t *GameTree) VariationIndex() int {
	if t.Current.Parent == nil {
		return -1
	}
	for i, child := range t.Current.Parent.Children {
		if child == t.Current {
			return i
		}
	}
	return -1
}

// HasChildren reports whether the current node has any children.
func (t *GameTree) HasChildren() bool {
	return len(t.Current.Children) > 0
}

// PathFromRoot returns the moves from root to current.
func (t *GameTree) PathFromRoot() []Entry {
	var path []Entry
	for node := t.Current; node != t.Root; node = node.Parent {
		path = append(path, node.Move)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Skyline replays the path to the current node from the full board.
func (t *GameTree) Skyline() (strategy.Skyline, error) {
	sky := strategy.Full
	for i, m := range t.PathFromRoot() {
		next, err := strategy.Apply(sky, m.Cell)
		if err != nil {
			return sky, fmt.Errorf("%w: move %d: %w", ErrBadRecord, i+1, err)
		}
		sky = next
	}
	return sky, nil
}
