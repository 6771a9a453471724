package ui

import (
	"github.com/gdamore/tcell/v2"
)

// RadioOption represents a single radio button option.
type RadioOption struct {
	Label       string
	Description string
}

// RadioSelect is a radio button group.
type RadioSelect struct {
	label    string
	options  []RadioOption
	selected int
	focused  bool
}

func NewRadioSelect(label string, options []RadioOption, initial int) *RadioSelect {
	r := &RadioSelect{label: label, options: options}
	r.SetSelected(initial)
	return r
}

func (r *RadioSelect) SetFocused(focused bool) {
	r.focused = focused
}

// HandleKey moves the selection with up and down. At either end of the
// group the key is not handled, so the caller can move focus on.
func (r *RadioSelect) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyUp:
		if r.selected > 0 {
			r.selected--
			return true
		}
	case tcell.KeyDown:
		if r.selected < len(r.options)-1 {
			r.selected++
			return true
		}
	case tcell.KeyRune:
		if event.Rune() == ' ' {
			r.selected = (r.selected + 1) % len(r.options)
			return true
		}
	}
	return false
}

// Draw renders the group and returns the number of rows used.
func (r *RadioSelect) Draw(screen tcell.Screen, x, y, width int) int {
	drawFieldLabel(screen, x, y, r.label, false)

	for i, opt := range r.options {
		row := y + 1 + i
		marker := ' '
		if r.focused && i == r.selected {
			marker = '▸'
		}
		screen.SetContent(x+2, row, marker, nil, cardStyle(MenuColors.Selected))

		style, bullet := cardStyle(MenuColors.Unselected), '○'
		if i == r.selected {
			style, bullet = cardStyle(MenuColors.Selected), '●'
		}
		screen.SetContent(x+4, row, bullet, nil, style)
		col := drawString(screen, x+6, row, opt.Label, style)
		if opt.Description != "" {
			drawString(screen, col+1, row, opt.Description, cardStyle(MenuColors.Hint))
		}
	}
	return 1 + len(r.options)
}

func (r *RadioSelect) Selected() int {
	return r.selected
}

// SetSelected ignores out of range indexes.
func (r *RadioSelect) SetSelected(index int) {
	if index >= 0 && index < len(r.options) {
		r.selected = index
	}
}
