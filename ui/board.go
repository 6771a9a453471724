// Package ui specifies custom controls for tview to assist in playing Chomp in the terminal.
package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"chomp-local/config"
	"chomp-local/engine"
	"chomp-local/record"
	"chomp-local/strategy"
	"chomp-local/types"
)

// Palette slots, indexes into BoardUI.styles.
const (
	styleBoard = iota
	styleBoardAlt
	styleCell
	styleEaten
	stylePoison
	styleLine
	styleCursorFG
	styleCursorBG
	styleLastPlayed
	styleHint
)

type BoardUI struct {
	Box        *tview.Box
	BoardState *types.BoardState
	hint       *tview.TextView
	cfg        *config.Config
	gameCfg    engine.GameConfig
	finished   bool
	selX       int
	selY       int
	hintPos    types.BoardPos
	hintForced bool
	app        *tview.Application
	eng        engine.GameEngine
	rec        *record.GameRecord
	styles     []tcell.Color
	infoPanel  *GameInfoPanel
	focusMode  bool

	moveHistory []record.Entry

	// mu guards BoardState, moveHistory and finished, which engine
	// callbacks update from the engine goroutine.
	mu sync.Mutex
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *BoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *BoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

func (g *BoardUI) SelectedTile() *types.BoardPos {
	if g.selX == -1 && g.selY == -1 {
		return nil
	}
	return &types.BoardPos{X: g.selX, Y: g.selY}
}

func (g *BoardUI) MoveSelection(h, v int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.BoardState.Finished() {
		g.selX, g.selY = -1, -1
		return
	}
	if g.SelectedTile() == nil {
		// Start at the poison corner, the one cell that is always there.
		g.selX = strategy.PoisonCol
		g.selY = strategy.PoisonRow
		return
	}
	if g.selX+h < 0 || g.selX+h >= g.BoardState.Width() {
		return
	}
	if g.selY+v < 0 || g.selY+v >= g.BoardState.Height() {
		return
	}
	g.selX += h
	g.selY += v
}

func (g *BoardUI) ResetSelection() {
	g.selX = -1
	g.selY = -1
}

func NewBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *BoardUI {
	board := &BoardUI{
		Box:        tview.NewBox(),
		BoardState: types.NewBoardState(),
		hint:       hint,
		app:        app,
		selX:       -1,
		selY:       -1,
		hintPos:    types.BoardPos{X: -1, Y: -1},
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		board.mu.Lock()
		defer board.mu.Unlock()
		board.draw(screen, x+4, y)
		drawCoordinates(screen, x, y, board)
		// 2 characters per cell plus the row labels
		return x, y, board.BoardState.Width()*2 + 4, board.BoardState.Height() + 2
	})
	return board
}

// bitten reports whether eating the selected cell would also remove (col, row).
func (g *BoardUI) bitten(col, row int) bool {
	if g.selX < 0 || g.finished || !g.BoardState.Present(g.selY, g.selX) {
		return false
	}
	return row <= g.selY && col <= g.selX && g.BoardState.Present(row, col)
}

// draw renders the cells with their top-left corner at (left, top).
func (g *BoardUI) draw(screen tcell.Screen, left, top int) {
	theme := g.cfg.Theme
	bs := g.BoardState
	for row := 0; row < bs.Height(); row++ {
		for col := 0; col < bs.Width(); col++ {
			bg := styleBoard
			if (col%2+row%2)%2 == 1 {
				bg = styleBoardAlt
			}
			fg := styleEaten
			r := theme.Symbols.Eaten
			switch {
			case bs.Present(row, col) && bs.IsPoison(col, row):
				fg, r = stylePoison, theme.Symbols.Poison
			case bs.Present(row, col):
				fg, r = styleCell, theme.Symbols.Cell
			}

			if g.bitten(col, row) {
				fg = styleCursorFG
			}
			switch {
			case col == g.selX && row == g.selY:
				if theme.DrawCursorBackground {
					bg = styleCursorBG
				} else {
					r = theme.Symbols.Cursor
				}
			case col == g.hintPos.X && row == g.hintPos.Y:
				bg = styleHint
			case col == bs.LastMove.X && row == bs.LastMove.Y:
				if theme.DrawLastPlayedBackground {
					bg = styleLastPlayed
				} else {
					r = theme.Symbols.LastPlayed
				}
			}

			style := tcell.StyleDefault.Background(g.styles[bg]).Foreground(g.styles[fg])
			drawCell(screen, style, r, col, row, left, top)
		}
	}
}

// ConnectEngine connects the board to a game engine and starts the game.
// rec may be nil when recording is disabled.
func (g *BoardUI) ConnectEngine(e engine.GameEngine, gc engine.GameConfig, rec *record.GameRecord) error {
	g.mu.Lock()
	g.finished = false
	g.eng = e
	g.gameCfg = gc
	g.rec = rec
	g.moveHistory = nil
	g.hintPos = types.BoardPos{X: -1, Y: -1}
	g.mu.Unlock()
	g.ResetSelection()

	e.OnMove(func(x, y, side int, boardState *types.BoardState) {
		cell := strategy.Cell{Row: y, Col: x}
		g.mu.Lock()
		g.BoardState = boardState
		g.moveHistory = append(g.moveHistory, record.Entry{Side: side, Cell: cell})
		g.hintPos = types.BoardPos{X: -1, Y: -1}
		if g.rec != nil {
			if err := g.rec.AddMove(cell, side); err != nil {
				log.Warn().Err(err).Msg("failed to record move")
			}
		}
		g.mu.Unlock()
		g.refreshHint()
		// Spawn goroutine to avoid deadlock when called from main thread
		go func() {
			g.app.QueueUpdateDraw(func() {})
		}()
	})

	e.OnGameEnd(func(outcome string) {
		g.mu.Lock()
		g.finished = true
		g.BoardState = e.GetBoardState()
		if g.rec != nil {
			if err := g.rec.SetResult(outcome); err != nil {
				log.Warn().Err(err).Msg("failed to record result")
			}
		}
		g.mu.Unlock()
		g.refreshHint()
		go func() {
			g.app.QueueUpdateDraw(func() {
				g.ResetSelection()
			})
		}()
	})

	if err := e.Connect(); err != nil {
		return err
	}

	g.mu.Lock()
	g.BoardState = e.GetBoardState()
	g.mu.Unlock()
	g.refreshHint()
	return nil
}

// PlayMove eats the cell at the given coordinates.
func (g *BoardUI) PlayMove(x, y int) {
	if g.eng == nil || g.IsFinished() || !g.eng.IsMyTurn() {
		return
	}
	if err := g.eng.PlayMove(x, y); err != nil {
		log.Debug().Err(err).Int("x", x).Int("y", y).Msg("move rejected")
	}
}

// Undo takes back moves until it is the player's turn again, removing the
// player's last move.
func (g *BoardUI) Undo() {
	if g.eng == nil || (!g.IsFinished() && !g.eng.IsMyTurn()) {
		return
	}

	g.mu.Lock()
	n := 0
	for i := len(g.moveHistory) - 1; i >= 0; i-- {
		if g.moveHistory[i].Side == g.gameCfg.PlayerSide {
			n = len(g.moveHistory) - i
			break
		}
	}
	g.mu.Unlock()
	if n == 0 {
		return
	}

	for i := 0; i < n; i++ {
		if err := g.eng.Undo(); err != nil {
			log.Warn().Err(err).Msg("undo failed")
			n = i
			break
		}
	}

	g.mu.Lock()
	g.moveHistory = g.moveHistory[:len(g.moveHistory)-n]
	g.BoardState = g.eng.GetBoardState()
	g.finished = g.BoardState.Finished()
	g.hintPos = types.BoardPos{X: -1, Y: -1}
	if g.rec != nil {
		if err := g.rec.UndoMoves(n); err != nil {
			log.Warn().Err(err).Msg("failed to update record")
		}
	}
	g.mu.Unlock()
	g.refreshHint()
}

// ShowHint marks the strategy's suggested move on the board.
func (g *BoardUI) ShowHint() {
	if g.eng == nil || g.IsFinished() || !g.eng.IsMyTurn() {
		return
	}
	x, y, forced, err := g.eng.Hint()
	if err != nil {
		log.Debug().Err(err).Msg("no hint")
		return
	}
	g.mu.Lock()
	g.hintPos = types.BoardPos{X: x, Y: y}
	g.hintForced = forced
	g.mu.Unlock()
	g.refreshHint()
}

// Close disconnects the engine and finishes the game record. A record
// without moves is removed.
func (g *BoardUI) Close() {
	if g.eng != nil {
		g.eng.Close()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rec == nil {
		return
	}
	empty := g.rec.Moves() == 0
	g.rec.Close()
	if empty {
		if err := os.Remove(g.rec.FilePath); err != nil {
			log.Warn().Err(err).Str("file", g.rec.FilePath).Msg("failed to remove empty record")
		}
	}
	g.rec = nil
}

func (g *BoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		styleBoard:      tcell.PaletteColor(c.Theme.Colors.BoardColor),
		styleBoardAlt:   tcell.PaletteColor(c.Theme.Colors.BoardColorAlt),
		styleCell:       tcell.PaletteColor(c.Theme.Colors.CellColor),
		styleEaten:      tcell.PaletteColor(c.Theme.Colors.EatenColor),
		stylePoison:     tcell.PaletteColor(c.Theme.Colors.PoisonColor),
		styleLine:       tcell.PaletteColor(c.Theme.Colors.LineColor),
		styleCursorFG:   tcell.PaletteColor(c.Theme.Colors.CursorColorFG),
		styleCursorBG:   tcell.PaletteColor(c.Theme.Colors.CursorColorBG),
		styleLastPlayed: tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG),
		styleHint:       tcell.PaletteColor(c.Theme.Colors.HintColorBG),
	}
	g.cfg = c
}

// verdict describes the current position from the table's point of view.
// Must be called while holding the lock.
func (g *BoardUI) verdict() string {
	if g.finished {
		return ""
	}
	sky, err := strategy.ToSkyline(g.BoardState)
	if err != nil {
		return "unknown shape"
	}
	toMove := "First"
	if g.BoardState.PlayerToMove == types.SideSecond {
		toMove = "Second"
	}
	switch strategy.Default().Lookup(sky).Outcome {
	case strategy.Winning:
		return fmt.Sprintf("%s to move wins", toMove)
	case strategy.Losing:
		return fmt.Sprintf("%s to move loses", toMove)
	}
	return ""
}

func (g *BoardUI) refreshHint() {
	g.mu.Lock()
	bs := g.BoardState
	finished := g.finished
	history := append([]record.Entry(nil), g.moveHistory...)
	verdict := ""
	if g.gameCfg.ShowHints {
		verdict = g.verdict()
	}
	hintPos, hintForced := g.hintPos, g.hintForced
	g.mu.Unlock()

	if g.infoPanel != nil {
		g.infoPanel.SetGame(bs, history, g.gameCfg, verdict)
	}

	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}

	var statusLine, turnLine, controlsLine string

	if finished {
		statusLine = "───────── Game Complete ─────────\n\n"
		turnLine = fmt.Sprintf("  Result: %s\n", bs.Outcome)
		controlsLine = "\n  u · undo   q · return to menu"
	} else {
		if hintPos.X >= 0 {
			kind := "no forced win, any move"
			if hintForced {
				kind = "forced win"
			}
			statusLine = fmt.Sprintf("  ? Hint: %s (%s)\n\n", hintPos.Cell().Move(), kind)
		}

		if g.eng != nil && g.eng.IsMyTurn() {
			side := "first"
			if g.eng.GetPlayerSide() == types.SideSecond {
				side = "second"
			}
			turnLine = fmt.Sprintf("  ● Your move (%s)\n", side)
		} else {
			turnLine = "  ◌ Thinking...\n"
		}

		controlsLine = `
  hjkl/↑↓←→ move   ⏎ eat   u undo
         ? hint   f focus   q quit`
	}

	g.hint.SetText(fmt.Sprintf("%s%s%s", statusLine, turnLine, controlsLine))
}

// IsFinished returns true if the game is over.
func (g *BoardUI) IsFinished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finished
}

// drawCell draws a 2 character wide cell.
func drawCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t int) {
	s.SetContent(l+x*2, t+y, r, nil, c)
	s.SetContent(l+x*2+1, t+y, ' ', nil, c)
}

// drawCoordinates labels columns and rows one-indexed, the way moves are shown.
func drawCoordinates(s tcell.Screen, x, y int, ui *BoardUI) {
	w, h := ui.BoardState.Width(), ui.BoardState.Height()

	style := tcell.StyleDefault.Foreground(ui.styles[styleLine])
	highlight := tcell.StyleDefault.Background(ui.styles[styleCursorBG])
	lpHighlight := tcell.StyleDefault.Background(ui.styles[styleLastPlayed])

	for ix := 0; ix < w; ix++ {
		_style := style
		if ix == ui.selX {
			_style = highlight
		} else if ix == ui.BoardState.LastMove.X {
			_style = lpHighlight
		}
		s.SetContent(x+4+(ix*2), y+h+1, rune('1'+ix), nil, _style)
		s.SetContent(x+4+(ix*2)+1, y+h+1, ' ', nil, _style)
	}

	for iy := 0; iy < h; iy++ {
		_style := style
		if iy == ui.selY {
			_style = highlight
		} else if iy == ui.BoardState.LastMove.Y {
			_style = lpHighlight
		}
		s.SetContent(x+2, y+iy, rune('1'+iy), nil, _style)
	}
}
