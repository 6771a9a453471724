package ui

import "github.com/gdamore/tcell/v2"

// MenuColors defines the palette for the menu screens.
var MenuColors = struct {
	Border      tcell.Color
	BorderFocus tcell.Color
	CardBG      tcell.Color
	Title       tcell.Color
	TitleAccent tcell.Color
	Poison      tcell.Color
	Label       tcell.Color
	Hint        tcell.Color
	Selected    tcell.Color
	Unselected  tcell.Color
	ButtonFocus tcell.Color
	ButtonText  tcell.Color
}{
	Border:      tcell.PaletteColor(95),  // muted cocoa
	BorderFocus: tcell.PaletteColor(180), // tan
	CardBG:      tcell.PaletteColor(235),
	Title:       tcell.PaletteColor(255),
	TitleAccent: tcell.PaletteColor(180),
	Poison:      tcell.PaletteColor(167),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	Selected:    tcell.PaletteColor(222), // gold
	Unselected:  tcell.PaletteColor(243),
	ButtonFocus: tcell.PaletteColor(130),
	ButtonText:  tcell.PaletteColor(255),
}

func cardStyle(fg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg).Background(MenuColors.CardBG)
}

// drawString writes text starting at (x, y) and returns the column after it.
func drawString(screen tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

// drawFieldLabel draws the focus marker and "◈ label" prefix shared by the
// setup controls and returns the column after the label.
func drawFieldLabel(screen tcell.Screen, x, y int, label string, focused bool) int {
	marker := ' '
	if focused {
		marker = '▸'
	}
	screen.SetContent(x, y, marker, nil, cardStyle(MenuColors.Selected))
	screen.SetContent(x+2, y, '◈', nil, cardStyle(MenuColors.TitleAccent))
	return drawString(screen, x+4, y, label, cardStyle(MenuColors.Label))
}
