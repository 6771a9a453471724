package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MenuCard is a card container with rounded borders and a spaced-out title.
type MenuCard struct {
	*tview.Box
	title string
}

// NewMenuCard creates a new menu card with the given title.
func NewMenuCard(title string) *MenuCard {
	return &MenuCard{
		Box:   tview.NewBox(),
		title: title,
	}
}

// spaced turns "chomp" into "C H O M P".
func spaced(title string) string {
	return strings.Join(strings.Split(strings.ToUpper(title), ""), " ")
}

// Draw fills the card, draws its border and the title block. Content
// starts at the row returned by ContentTop.
func (c *MenuCard) Draw(screen tcell.Screen) {
	c.Box.DrawForSubclass(screen, c)

	x, y, width, height := c.GetInnerRect()
	if width < 10 || height < 5 {
		return
	}

	borderColor := MenuColors.Border
	if c.HasFocus() {
		borderColor = MenuColors.BorderFocus
	}
	border := cardStyle(borderColor)
	bg := cardStyle(MenuColors.Label)

	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, bg)
		}
	}

	right, bottom := x+width-1, y+height-1
	for col := x + 1; col < right; col++ {
		screen.SetContent(col, y, '─', nil, border)
		screen.SetContent(col, bottom, '─', nil, border)
	}
	for row := y + 1; row < bottom; row++ {
		screen.SetContent(x, row, '│', nil, border)
		screen.SetContent(right, row, '│', nil, border)
	}
	screen.SetContent(x, y, '╭', nil, border)
	screen.SetContent(right, y, '╮', nil, border)
	screen.SetContent(x, bottom, '╰', nil, border)
	screen.SetContent(right, bottom, '╯', nil, border)

	if c.title == "" {
		return
	}
	title := spaced(c.title)
	titleX := x + (width-len([]rune(title))-3)/2
	screen.SetContent(titleX, y+2, '☠', nil, cardStyle(MenuColors.Poison))
	drawString(screen, titleX+3, y+2, title, cardStyle(MenuColors.Title).Bold(true))
	c.DrawDivider(screen, y+4)
}

// ContentTop returns the first row below the title block.
func (c *MenuCard) ContentTop() int {
	_, y, _, _ := c.GetInnerRect()
	if c.title == "" {
		return y + 1
	}
	return y + 6
}

// DrawDivider draws a horizontal divider at the given y position.
func (c *MenuCard) DrawDivider(screen tcell.Screen, divY int) {
	x, _, width, _ := c.GetInnerRect()
	borderColor := MenuColors.Border
	if c.HasFocus() {
		borderColor = MenuColors.BorderFocus
	}
	style := cardStyle(borderColor)

	screen.SetContent(x, divY, '├', nil, style)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, divY, '─', nil, style)
	}
	screen.SetContent(x+width-1, divY, '┤', nil, style)
}
