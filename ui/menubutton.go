package ui

import (
	"github.com/gdamore/tcell/v2"
)

// MenuButton is a styled button. Its hotkey activates it from anywhere on
// the card.
type MenuButton struct {
	label    string
	hotkey   rune
	primary  bool
	focused  bool
	onSelect func()
}

func NewMenuButton(label string, hotkey rune, primary bool, onSelect func()) *MenuButton {
	return &MenuButton{
		label:    label,
		hotkey:   hotkey,
		primary:  primary,
		onSelect: onSelect,
	}
}

func (b *MenuButton) SetFocused(focused bool) {
	b.focused = focused
}

// HandleKey activates the button on Enter. Returns true if handled.
func (b *MenuButton) HandleKey(event *tcell.EventKey) bool {
	if event.Key() != tcell.KeyEnter {
		return false
	}
	b.activate()
	return true
}

func (b *MenuButton) activate() {
	if b.onSelect != nil {
		b.onSelect()
	}
}

func (b *MenuButton) text() string {
	if b.primary {
		return "▶ " + b.label
	}
	return b.label
}

// Draw renders the button and returns the width used.
func (b *MenuButton) Draw(screen tcell.Screen, x, y int) int {
	label := b.text()
	width := b.Width()

	if b.focused {
		style := tcell.StyleDefault.Foreground(MenuColors.ButtonText).Background(MenuColors.ButtonFocus)
		for i := 0; i < width; i++ {
			screen.SetContent(x+i, y, ' ', nil, style)
		}
		drawString(screen, x+1, y, label, style)
		return width
	}

	bracket := cardStyle(MenuColors.Border)
	screen.SetContent(x, y, '[', nil, bracket)
	drawString(screen, x+1, y, label, cardStyle(MenuColors.Hint))
	screen.SetContent(x+width-1, y, ']', nil, bracket)
	return width
}

// Width returns the button width including padding or brackets.
func (b *MenuButton) Width() int {
	return len([]rune(b.text())) + 2
}
