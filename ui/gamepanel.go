package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"chomp-local/engine"
	"chomp-local/record"
	"chomp-local/strategy"
	"chomp-local/types"
)

// GameInfoPanel displays game information and move history alongside the board.
type GameInfoPanel struct {
	box        *tview.TextView
	boardState *types.BoardState
	history    []record.Entry
	gameCfg    engine.GameConfig
	verdict    string
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetGame updates the panel. verdict is empty when hints are off.
func (p *GameInfoPanel) SetGame(state *types.BoardState, history []record.Entry, gc engine.GameConfig, verdict string) {
	p.boardState = state
	p.history = history
	p.gameCfg = gc
	p.verdict = verdict
	p.refresh()
}

func sideLabel(side int) string {
	if side == types.SideSecond {
		return "[dimgray]2nd[-]"
	}
	return "[white]1st[-]"
}

// refresh updates the panel text.
func (p *GameInfoPanel) refresh() {
	if p.boardState == nil {
		p.box.SetText("")
		return
	}

	var text strings.Builder

	text.WriteString("[white::b]Game Info[-:-:-]\n")
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")

	you := "first"
	if p.gameCfg.PlayerSide == types.SideSecond {
		you = "second"
	}
	fmt.Fprintf(&text, "[white]You:[-:-:-] %s\n", you)
	fmt.Fprintf(&text, "[white]Engine:[-:-:-] level %d\n", p.gameCfg.EngineLevel)
	fmt.Fprintf(&text, "[white]Move:[-:-:-] %d\n", p.boardState.MoveNumber)
	if p.verdict != "" {
		fmt.Fprintf(&text, "[yellow]%s[-]\n", p.verdict)
	}

	if len(p.history) > 0 {
		text.WriteString("\n[white::b]Moves[-:-:-]\n")
		text.WriteString("[dimgray]──────────────────────[-:-:-]\n")

		maxVisible := 12
		start := 0
		if len(p.history) > maxVisible {
			start = len(p.history) - maxVisible
		}

		for i := start; i < len(p.history); i++ {
			m := p.history[i]
			marker := " "
			if i == len(p.history)-1 {
				marker = "[white]>[-]"
			}
			coord := m.Cell.Move().String()
			if m.Cell == strategy.Poison {
				coord += " ☠"
			}
			fmt.Fprintf(&text, "%s[dimgray]%3d.[-] %s %s\n", marker, i+1, sideLabel(m.Side), coord)
		}

		if start > 0 {
			fmt.Fprintf(&text, "[dimgray]  ··· %d earlier[-]\n", start)
		}
	}

	p.box.SetText(text.String())
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *BoardUI, hint *tview.TextView) *tview.Flex {
	gameFrame := tview.NewFlex()
	RebuildNormalLayout(gameFrame, board, hint)
	return gameFrame
}

// CreateCenteredForm centers a form horizontally with a maximum width.
func CreateCenteredForm(form tview.Primitive, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)

	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *BoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel()
	board.infoPanel = infoPanel
	board.refreshHint()

	// Horizontal flex: board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false)

	// Board area on top, status bar at bottom
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 7, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *BoardUI) {
	gameFrame.Clear()

	boardWidth := board.BoardState.Width()*2 + 4
	boardHeight := board.BoardState.Height() + 2

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardWidth, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardHeight, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}
