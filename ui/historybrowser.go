package ui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"chomp-local/record"
	"chomp-local/strategy"
)

// HistoryBrowserUI provides a screen for browsing and replaying saved games.
type HistoryBrowserUI struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	dir      string
	games    []record.GameInfo
	trees    map[string]*record.GameTree // keyed by file path, positioned at the end on load
	selected int
	onDone   func()
}

// NewHistoryBrowser creates a history browser over the records in dir.
func NewHistoryBrowser(dir string, onDone func()) *HistoryBrowserUI {
	hb := &HistoryBrowserUI{
		dir:    dir,
		onDone: onDone,
		trees:  make(map[string]*record.GameTree),
	}

	hb.gameList = tview.NewList()
	hb.gameList.SetBorder(true)
	hb.gameList.SetTitle(" Game History ")
	hb.gameList.ShowSecondaryText(false)
	hb.gameList.SetHighlightFullLine(true)
	hb.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	hb.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	hb.preview = tview.NewBox()
	hb.preview.SetBorder(true)
	hb.preview.SetTitle(" Replay ")
	hb.preview.SetDrawFunc(hb.drawPreview)

	hb.hint = tview.NewTextView()
	hb.hint.SetDynamicColors(true)
	hb.hint.SetBorder(false)
	hb.hint.SetText("  [dimgray]←→[-] step  [dimgray]home/end[-] jump  [dimgray]d[-] delete  [dimgray]q[-] back")

	hb.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.selected = index
	})
	hb.gameList.SetInputCapture(hb.handleInput)

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.gameList, 40, 0, true).
		AddItem(hb.preview, 0, 1, false)

	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	hb.loadGames()
	return hb
}

// Flex returns the flex container for this UI.
func (hb *HistoryBrowserUI) Flex() *tview.Flex {
	return hb.flex
}

// Refresh reloads the game list from disk.
func (hb *HistoryBrowserUI) Refresh() {
	hb.trees = make(map[string]*record.GameTree)
	hb.loadGames()
}

func resultText(re string) string {
	switch re {
	case "B+":
		return "1st won"
	case "W+":
		return "2nd won"
	case "", "?":
		return "unfinished"
	}
	return re
}

func (hb *HistoryBrowserUI) loadGames() {
	hb.gameList.Clear()
	hb.games = nil
	hb.selected = 0

	games, err := record.ListGames(hb.dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", hb.dir).Msg("failed to list games")
	}
	if len(games) == 0 {
		hb.gameList.AddItem("[dimgray]No games found[-]", "", 0, nil)
		return
	}

	hb.games = games
	for _, g := range games {
		hb.gameList.AddItem(gameLabel(g), "", 0, nil)
	}
}

// gameLabel summarises a record for the list, replaying it to flag
// records whose moves do not apply.
func gameLabel(g record.GameInfo) string {
	label := fmt.Sprintf("%s  %2d moves  %s", g.Date, g.MoveCount, resultText(g.Result))
	sky, _, err := record.ReplayToEnd(g.FilePath)
	switch {
	case err != nil:
		log.Debug().Err(err).Str("file", g.FilePath).Msg("record does not replay")
		label += "  [red]corrupt[-]"
	case sky != strategy.Empty:
		label += fmt.Sprintf("  %d left", sky.Cells())
	}
	return label
}

// tree returns the replay tree of the selected game, loading it on first use.
func (hb *HistoryBrowserUI) tree() *record.GameTree {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return nil
	}
	path := hb.games[hb.selected].FilePath
	if t, ok := hb.trees[path]; ok {
		return t
	}
	moves, err := record.ParseMovesAsEntries(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("failed to read game")
		return nil
	}
	t := record.NewGameTreeFromEntries(moves)
	t.ToEnd()
	hb.trees[path] = t
	return t
}

func (hb *HistoryBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if hb.onDone != nil {
			hb.onDone()
		}
		return nil
	case tcell.KeyLeft:
		if t := hb.tree(); t != nil {
			t.Back()
		}
		return nil
	case tcell.KeyRight:
		if t := hb.tree(); t != nil {
			t.Forward(0)
		}
		return nil
	case tcell.KeyHome:
		if t := hb.tree(); t != nil {
			t.ToStart()
		}
		return nil
	case tcell.KeyEnd:
		if t := hb.tree(); t != nil {
			t.ToEnd()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if hb.onDone != nil {
				hb.onDone()
			}
			return nil
		case 'd':
			hb.deleteSelected()
			return nil
		}
	}
	return event
}

// deleteSelected removes the currently selected game file.
func (hb *HistoryBrowserUI) deleteSelected() {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return
	}
	game := hb.games[hb.selected]
	if err := os.Remove(game.FilePath); err != nil {
		log.Warn().Err(err).Str("file", game.FilePath).Msg("failed to delete game")
	}
	hb.Refresh()
}

// drawPreview renders the selected game at the replay position and its metadata.
func (hb *HistoryBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	t := hb.tree()
	if t == nil {
		return x, y, width, height
	}
	game := hb.games[hb.selected]
	sky, err := t.Skyline()

	startX, startY := x+2, y+1
	if width < strategy.Cols*2+4 || height < strategy.Rows+10 {
		return x, y, width, height
	}

	cellStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(180))
	eatenStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
	poisonStyle := tcell.StyleDefault.Foreground(MenuColors.Poison).Bold(true)
	for row := 0; row < strategy.Rows; row++ {
		for col := 0; col < strategy.Cols; col++ {
			ch, style := '·', eatenStyle
			if sky.Present(row, col) {
				ch, style = '■', cellStyle
				if row == strategy.PoisonRow && col == strategy.PoisonCol {
					ch, style = '☠', poisonStyle
				}
			}
			screen.SetContent(startX+col*2, startY+row, ch, nil, style)
		}
	}

	infoStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	dimStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))
	accentStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(180))

	infoY := startY + strategy.Rows + 1
	drawText(screen, startX, infoY, fmt.Sprintf("%dx%d", game.Cols, game.Rows), infoStyle)
	drawText(screen, startX+6, infoY, fmt.Sprintf("| %d moves", game.MoveCount), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("1st: %s", game.PlayerFirst), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("2nd: %s", game.PlayerSecond), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("Result: %s", resultText(game.Result)), accentStyle)

	infoY += 2
	path := t.PathFromRoot()
	step := fmt.Sprintf("Step %d/%d", len(path), game.MoveCount)
	if len(path) > 0 {
		last := path[len(path)-1]
		step += fmt.Sprintf("  last %s %s", sideText(last.Side), last.Cell.Move())
	}
	drawText(screen, startX, infoY, step, infoStyle)

	infoY++
	switch {
	case err != nil:
		drawText(screen, startX, infoY, "Record is corrupt", tcell.StyleDefault.Foreground(MenuColors.Poison))
	case sky == strategy.Empty:
		drawText(screen, startX, infoY, "Poison taken", dimStyle)
	default:
		verdict := "loses"
		if strategy.Default().Lookup(sky).Outcome == strategy.Winning {
			verdict = "wins"
		}
		drawText(screen, startX, infoY, fmt.Sprintf("%s to move %s", sideText(t.SideToMove()), verdict), dimStyle)
	}

	return x, y, width, height
}

func sideText(side int) string {
	if side == 2 {
		return "2nd"
	}
	return "1st"
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}
