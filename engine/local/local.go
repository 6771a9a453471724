// Package local provides an in-process engine backed by the Chomp strategy table.
package local

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"chomp-local/engine"
	"chomp-local/strategy"
	"chomp-local/types"
)

// ply is one played move together with the shape it was played on.
type ply struct {
	cell   strategy.Cell
	side   int
	before strategy.Skyline
}

// Engine implements the GameEngine interface using the precomputed strategy table.
type Engine struct {
	config     engine.GameConfig
	sel        *strategy.Selector
	boardState *types.BoardState
	sky        strategy.Skyline
	history    []ply
	myTurn     bool
	gameOver   bool
	playerSide int // Human's side (1=first, 2=second)

	// intn returns a value in [0, n); swapped out in tests.
	intn func(n int) int

	moveCallback func(x, y, side int, boardState *types.BoardState)
	endCallback  func(outcome string)

	mu sync.Mutex
}

// NewEngine creates a new local engine with the given configuration.
func NewEngine(cfg engine.GameConfig) *Engine {
	if cfg.EngineLevel < 1 || cfg.EngineLevel > 10 {
		cfg.EngineLevel = 10
	}
	if cfg.PlayerSide != types.SideSecond {
		cfg.PlayerSide = types.SideFirst
	}
	return &Engine{
		config:     cfg,
		playerSide: cfg.PlayerSide,
		boardState: types.NewBoardState(),
		sky:        strategy.Full,
		intn:       frand.Intn,
	}
}

// Connect loads the strategy table and starts the game.
func (e *Engine) Connect() error {
	sel := strategy.NewSelector(strategy.Default())

	e.mu.Lock()
	e.sel = sel
	e.sky = strategy.Full
	e.history = nil
	e.gameOver = false
	e.boardState = types.NewBoardState()
	e.myTurn = e.playerSide == types.SideFirst
	myTurn := e.myTurn
	e.mu.Unlock()

	log.Info().
		Int("side", e.playerSide).
		Int("level", e.config.EngineLevel).
		Msg("game started")

	if !myTurn {
		go e.triggerEngineMove()
	}
	return nil
}

// GetBoardState returns a copy of the current board state.
func (e *Engine) GetBoardState() *types.BoardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.boardState.Copy()
}

// PlayMove eats the cell at column x, row y for the human player.
func (e *Engine) PlayMove(x, y int) error {
	e.mu.Lock()

	if e.gameOver {
		e.mu.Unlock()
		return fmt.Errorf("game is over")
	}
	if !e.myTurn {
		e.mu.Unlock()
		return fmt.Errorf("not your turn")
	}

	cell := strategy.Cell{Row: y, Col: x}
	if err := e.apply(cell, e.playerSide); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("illegal move: %w", err)
	}
	log.Debug().Str("cell", cell.String()).Str("skyline", e.sky.String()).Msg("player move")

	e.myTurn = false
	side := e.playerSide
	ended := e.gameOver
	outcome := e.boardState.Outcome
	boardStateCopy := e.boardState.Copy()
	e.mu.Unlock()

	// Notify callback (outside lock to prevent deadlock)
	if e.moveCallback != nil {
		e.moveCallback(x, y, side, boardStateCopy)
	}

	if ended {
		e.notifyEnd(outcome)
		return nil
	}

	go e.triggerEngineMove()
	return nil
}

// apply plays cell for side. Must be called while holding the lock.
func (e *Engine) apply(cell strategy.Cell, side int) error {
	next, err := strategy.Apply(e.sky, cell)
	if err != nil {
		return err
	}
	e.history = append(e.history, ply{cell: cell, side: side, before: e.sky})
	e.sky = next
	e.boardState.SetSkyline(next)
	e.boardState.LastMove = types.BoardPos{X: cell.Col, Y: cell.Row}
	e.boardState.MoveNumber++
	e.boardState.PlayerToMove = types.OtherSide(side)

	if cell == strategy.Poison {
		winner := types.OtherSide(side)
		e.gameOver = true
		e.boardState.Phase = "finished"
		e.boardState.Winner = winner
		e.boardState.Outcome = fmt.Sprintf("%s player wins", sideName(winner))
	}
	return nil
}

// triggerEngineMove picks and plays the engine's reply.
func (e *Engine) triggerEngineMove() {
	e.mu.Lock()

	engineSide := types.OtherSide(e.playerSide)
	// An undo may have handed the turn back before this goroutine ran.
	if e.gameOver || e.sel == nil || e.boardState.PlayerToMove != engineSide {
		e.mu.Unlock()
		return
	}

	m, err := e.pickMove()
	if err != nil {
		log.Error().Err(err).Str("skyline", e.sky.String()).Msg("engine failed to pick a move")
		e.mu.Unlock()
		return
	}
	cell := m.Cell()
	if err := e.apply(cell, engineSide); err != nil {
		log.Error().Err(err).Str("move", m.String()).Msg("engine picked an illegal move")
		e.mu.Unlock()
		return
	}
	log.Debug().
		Str("move", m.String()).
		Bool("forced", m.Forced).
		Str("skyline", e.sky.String()).
		Msg("engine move")

	e.myTurn = !e.gameOver
	ended := e.gameOver
	outcome := e.boardState.Outcome
	boardStateCopy := e.boardState.Copy()
	e.mu.Unlock()

	// Notify callback (outside lock)
	if e.moveCallback != nil {
		e.moveCallback(cell.Col, cell.Row, engineSide, boardStateCopy)
	}
	if ended {
		e.notifyEnd(outcome)
	}
}

// pickMove chooses the engine's move.
// Must be called while holding the lock.
func (e *Engine) pickMove() (strategy.Move, error) {
	return engine.PickMove(e.sel, e.sky, e.config.EngineLevel, e.intn)
}

func (e *Engine) notifyEnd(outcome string) {
	log.Info().Str("outcome", outcome).Msg("game over")
	if e.endCallback != nil {
		e.endCallback(outcome)
	}
}

// Undo takes back the last ply.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.history) == 0 {
		return fmt.Errorf("nothing to undo")
	}
	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]

	e.sky = last.before
	e.boardState.SetSkyline(last.before)
	e.boardState.MoveNumber--
	e.boardState.PlayerToMove = last.side
	e.boardState.Phase = "playing"
	e.boardState.Outcome = ""
	e.boardState.Winner = 0
	e.boardState.LastMove = types.BoardPos{X: -1, Y: -1}
	if n := len(e.history); n > 0 {
		prev := e.history[n-1].cell
		e.boardState.LastMove = types.BoardPos{X: prev.Col, Y: prev.Row}
	}
	e.gameOver = false
	e.myTurn = last.side == e.playerSide
	return nil
}

// Hint returns the strategy's move for the human player.
func (e *Engine) Hint() (int, int, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sel == nil {
		return -1, -1, false, fmt.Errorf("engine not connected")
	}
	if e.gameOver {
		return -1, -1, false, fmt.Errorf("game is over")
	}
	m, ok, err := e.sel.Choose(e.sky)
	if err != nil {
		return -1, -1, false, err
	}
	if !ok {
		return -1, -1, false, fmt.Errorf("no cells left")
	}
	c := m.Cell()
	return c.Col, c.Row, m.Forced, nil
}

// IsMyTurn returns true if it's the human player's turn.
func (e *Engine) IsMyTurn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.myTurn && !e.gameOver
}

// GetPlayerSide returns the human player's side (1=first, 2=second).
func (e *Engine) GetPlayerSide() int {
	return e.playerSide
}

// OnMove registers a callback for when a move is played.
func (e *Engine) OnMove(callback func(x, y, side int, boardState *types.BoardState)) {
	e.moveCallback = callback
}

// OnGameEnd registers a callback for when the game ends.
func (e *Engine) OnGameEnd(callback func(outcome string)) {
	e.endCallback = callback
}

// Close stops the engine from making further moves.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gameOver = true
	e.myTurn = false
}

func sideName(side int) string {
	if side == types.SideFirst {
		return "First"
	}
	return "Second"
}
