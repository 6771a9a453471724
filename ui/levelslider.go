package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// LevelSlider is a horizontal slider for the engine strength.
type LevelSlider struct {
	label    string
	min      int
	max      int
	value    int
	focused  bool
	describe func(int) string
}

// NewLevelSlider creates a new level slider. describe, if set, adds a short
// note after the value.
func NewLevelSlider(label string, min, max, initial int, describe func(int) string) *LevelSlider {
	s := &LevelSlider{label: label, min: min, max: max, value: min, describe: describe}
	s.SetValue(initial)
	return s
}

func (s *LevelSlider) SetFocused(focused bool) {
	s.focused = focused
}

// HandleKey moves the slider with left and right. Returns true if handled.
func (s *LevelSlider) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		s.SetValue(s.value - 1)
		return true
	case tcell.KeyRight:
		s.SetValue(s.value + 1)
		return true
	}
	return false
}

// Draw renders the slider and returns the number of rows used.
func (s *LevelSlider) Draw(screen tcell.Screen, x, y, width int) int {
	col := drawFieldLabel(screen, x, y, s.label, s.focused) + 3

	arrow := cardStyle(MenuColors.Unselected)
	if s.focused {
		arrow = cardStyle(MenuColors.Selected)
	}
	screen.SetContent(col, y, '◀', nil, arrow)
	col += 2

	for i := s.min; i <= s.max; i++ {
		if i <= s.value {
			screen.SetContent(col, y, '█', nil, cardStyle(MenuColors.Selected))
		} else {
			screen.SetContent(col, y, '░', nil, cardStyle(MenuColors.Unselected))
		}
		col++
	}
	col = drawString(screen, col+1, y, fmt.Sprintf("%2d", s.value), cardStyle(MenuColors.Label))
	screen.SetContent(col+1, y, '▶', nil, arrow)

	if s.describe != nil {
		drawString(screen, col+3, y, s.describe(s.value), cardStyle(MenuColors.Hint))
	}
	return 1
}

func (s *LevelSlider) Value() int {
	return s.value
}

// SetValue clamps v into range.
func (s *LevelSlider) SetValue(v int) {
	if v < s.min {
		v = s.min
	}
	if v > s.max {
		v = s.max
	}
	s.value = v
}
