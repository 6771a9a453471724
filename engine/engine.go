// Package engine defines the interface for game engines.
package engine

import (
	"errors"

	"chomp-local/strategy"
	"chomp-local/types"
)

// ErrNoMove is returned when the board has no cells left to eat.
var ErrNoMove = errors.New("no cells left")

// GameEngine defines the interface for playing Chomp against an engine.
type GameEngine interface {
	// Connect initializes the game and, if the engine moves first, starts
	// its reply.
	Connect() error

	// GetBoardState returns the current board state.
	GetBoardState() *types.BoardState

	// PlayMove eats the cell at column x, row y (zero-indexed).
	// Returns an error if the move is illegal.
	PlayMove(x, y int) error

	// IsMyTurn returns true if it's the human player's turn.
	IsMyTurn() bool

	// GetPlayerSide returns the human player's side (1=first, 2=second).
	GetPlayerSide() int

	// OnMove registers a callback for when a move is played (by either player).
	// boardState is a copy taken after the move.
	OnMove(func(x, y, side int, boardState *types.BoardState))

	// Undo undoes the last move (one ply). Call twice to undo a player+engine move pair.
	Undo() error

	// Hint returns the move the strategy would play for the human, as
	// zero-indexed column and row, and whether it is a forced win.
	Hint() (x, y int, forced bool, err error)

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(outcome string))

	// Close shuts down the engine.
	Close()
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	PlayerSide  int  // 1=first, 2=second
	EngineLevel int  // 1-10, 10 plays perfectly
	ShowHints   bool // show the position verdict while playing
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		PlayerSide:  1, // Human moves first
		EngineLevel: 10,
		ShowHints:   false,
	}
}

// PickMove chooses a move for an engine of the given level. Level 10
// always plays sel's choice; a lower level eats a random non-poison cell
// with probability (10-level)/10. intn returns a value in [0, n).
func PickMove(sel *strategy.Selector, sky strategy.Skyline, level int, intn func(n int) int) (strategy.Move, error) {
	if level < 10 && intn(10) >= level {
		var candidates []strategy.Cell
		for _, c := range strategy.LegalMoves(sky) {
			if c != strategy.Poison {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) > 0 {
			return candidates[intn(len(candidates))].Move(), nil
		}
	}
	m, ok, err := sel.Choose(sky)
	if err != nil {
		return strategy.Move{}, err
	}
	if !ok {
		return strategy.Move{}, ErrNoMove
	}
	return m, nil
}
