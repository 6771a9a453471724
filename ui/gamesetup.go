package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chomp-local/config"
	"chomp-local/engine"
	"chomp-local/types"
)

const (
	setupWidth  = 56
	setupHeight = 22
)

type setupControl interface {
	SetFocused(bool)
	HandleKey(*tcell.EventKey) bool
}

// GameSetupUI is the new game card: side, engine strength, hints and the
// menu buttons.
type GameSetupUI struct {
	*MenuCard
	side     *RadioSelect
	level    *LevelSlider
	hints    *RadioSelect
	buttons  []*MenuButton
	controls []setupControl
	focus    int
	layout   *tview.Flex
	onQuit   func()
}

func describeLevel(level int) string {
	switch {
	case level >= 10:
		return "perfect"
	case level <= 3:
		return "mostly random"
	}
	return "makes mistakes"
}

// NewGameSetup creates the setup card with defaults taken from the config.
func NewGameSetup(defaults config.EngineConfig, onStart func(engine.GameConfig), onHistory, onColors, onQuit func()) *GameSetupUI {
	s := &GameSetupUI{
		MenuCard: NewMenuCard("chomp"),
		onQuit:   onQuit,
	}

	side := 0
	if !defaults.PlayerFirst {
		side = 1
	}
	s.side = NewRadioSelect("Your Side", []RadioOption{
		{Label: "First", Description: "you take the first bite"},
		{Label: "Second", Description: "the engine opens"},
	}, side)

	s.level = NewLevelSlider("Strength", 1, 10, defaults.DefaultLevel, describeLevel)

	hints := 0
	if defaults.ShowHints {
		hints = 1
	}
	s.hints = NewRadioSelect("Verdict", []RadioOption{
		{Label: "Hidden"},
		{Label: "Shown", Description: "who wins from here"},
	}, hints)

	s.buttons = []*MenuButton{
		NewMenuButton("Start", 's', true, func() { onStart(s.GameConfig()) }),
		NewMenuButton("History", 'h', false, onHistory),
		NewMenuButton("Colors", 'c', false, onColors),
		NewMenuButton("Quit", 'q', false, onQuit),
	}

	s.controls = []setupControl{s.side, s.level, s.hints}
	for _, b := range s.buttons {
		s.controls = append(s.controls, b)
	}
	s.controls[0].SetFocused(true)

	row := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(nil, 0, 1, false).
		AddItem(s, setupWidth, 0, true).
		AddItem(nil, 0, 1, false)
	s.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(row, setupHeight, 0, true).
		AddItem(nil, 0, 1, false)
	return s
}

// Layout returns the card centered on the screen.
func (s *GameSetupUI) Layout() *tview.Flex {
	return s.layout
}

// GameConfig returns the configuration currently selected on the card.
func (s *GameSetupUI) GameConfig() engine.GameConfig {
	return engine.GameConfig{
		PlayerSide:  types.SideFirst + s.side.Selected(),
		EngineLevel: s.level.Value(),
		ShowHints:   s.hints.Selected() == 1,
	}
}

func (s *GameSetupUI) Draw(screen tcell.Screen) {
	s.MenuCard.Draw(screen)

	x, _, width, _ := s.GetInnerRect()
	left, inner := x+3, width-6
	row := s.ContentTop()
	row += s.side.Draw(screen, left, row, inner) + 1
	row += s.level.Draw(screen, left, row, inner) + 1
	row += s.hints.Draw(screen, left, row, inner)

	s.DrawDivider(screen, row+1)
	col := left
	for _, b := range s.buttons {
		col += b.Draw(screen, col, row+3) + 2
	}
	drawString(screen, left, row+5, "tab/↑↓ move   ←→ adjust   ⏎ select", cardStyle(MenuColors.Hint))
}

func (s *GameSetupUI) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return s.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		s.handleKey(event)
	})
}

func (s *GameSetupUI) onButton() bool {
	return s.focus >= len(s.controls)-len(s.buttons)
}

func (s *GameSetupUI) moveFocus(delta int) {
	s.controls[s.focus].SetFocused(false)
	s.focus = (s.focus + delta + len(s.controls)) % len(s.controls)
	s.controls[s.focus].SetFocused(true)
}

func (s *GameSetupUI) handleKey(event *tcell.EventKey) {
	if s.controls[s.focus].HandleKey(event) {
		return
	}
	switch event.Key() {
	case tcell.KeyTab, tcell.KeyDown:
		s.moveFocus(1)
	case tcell.KeyBacktab, tcell.KeyUp:
		s.moveFocus(-1)
	case tcell.KeyLeft:
		if s.onButton() {
			s.moveFocus(-1)
		}
	case tcell.KeyRight:
		if s.onButton() {
			s.moveFocus(1)
		}
	case tcell.KeyEnter:
		s.buttons[0].activate()
	case tcell.KeyEscape:
		if s.onQuit != nil {
			s.onQuit()
		}
	case tcell.KeyRune:
		for _, b := range s.buttons {
			if b.hotkey == event.Rune() {
				b.activate()
				return
			}
		}
	}
}
