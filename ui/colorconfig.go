package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"chomp-local/config"
	"chomp-local/strategy"
)

type namedColor struct {
	code int
	name string
}

// Board backgrounds, mostly warm tones.
var boardColors = []namedColor{
	{230, "Light Cream"},
	{229, "Pale Yellow"},
	{223, "Peach"},
	{222, "Gold"},
	{216, "Salmon"},
	{188, "Light Beige"},
	{181, "Dusty Rose"},
	{180, "Tan"},
	{179, "Light Brown"},
	{172, "Brown"},
	{252, "Light Gray"},
	{248, "Medium Gray"},
	{238, "Charcoal"},
	{235, "Night"},
}

// Chocolate colors, dark enough to show on the boards above.
var cellColors = []namedColor{
	{94, "Milk Chocolate"},
	{52, "Dark Chocolate"},
	{130, "Caramel"},
	{136, "Toffee"},
	{58, "Cocoa"},
	{95, "Mocha"},
	{231, "White Chocolate"},
	{232, "Black"},
	{22, "Mint"},
	{54, "Blackcurrant"},
}

// previewShape is a half-eaten bar drawn in the preview.
var previewShape = strategy.Skyline{3, 5, 6, 8, 8}

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()

	selectedBoardColor int
	selectedCellColor  int
	editingCell        bool // false = editing board color
}

// NewColorConfig creates a new color configuration screen.
func NewColorConfig(cfg *config.Config, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:                cfg,
		onDone:             onDone,
		selectedBoardColor: cfg.Theme.Colors.BoardColor,
		selectedCellColor:  cfg.Theme.Colors.CellColor,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		colors := cc.colors()
		if index < 0 || index >= len(colors) {
			return
		}
		if cc.editingCell {
			cc.selectedCellColor = colors[index].code
		} else {
			cc.selectedBoardColor = colors[index].code
		}
	})

	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if cc.editingCell {
			cc.cfg.Theme.Colors.CellColor = cc.selectedCellColor
			cc.save()
			cc.editingCell = false
			cc.populateColorList()
			return
		}
		cc.cfg.Theme.Colors.BoardColor = cc.selectedBoardColor
		cc.cfg.Theme.Colors.BoardColorAlt = cc.selectedBoardColor
		cc.save()
		onDone()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 34, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

func (cc *ColorConfigUI) save() {
	if err := cc.cfg.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to save config")
	}
}

func (cc *ColorConfigUI) colors() []namedColor {
	if cc.editingCell {
		return cellColors
	}
	return boardColors
}

// populateColorList fills the list for the current editing mode.
func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()

	current := cc.selectedBoardColor
	cc.colorList.SetTitle(" Board Color (Tab: chocolate) ")
	if cc.editingCell {
		current = cc.selectedCellColor
		cc.colorList.SetTitle(" Chocolate Color (Tab: board) ")
	}

	for i, c := range cc.colors() {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
		}
	}
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if width < strategy.Cols*2+6 || height < strategy.Rows+4 {
		return x, y, width, height
	}

	board := tcell.PaletteColor(cc.selectedBoardColor)
	cell := tcell.StyleDefault.Background(board).Foreground(tcell.PaletteColor(cc.selectedCellColor))
	eaten := tcell.StyleDefault.Background(board).Foreground(tcell.PaletteColor(cc.cfg.Theme.Colors.EatenColor))
	poison := tcell.StyleDefault.Background(board).Foreground(tcell.PaletteColor(cc.cfg.Theme.Colors.PoisonColor))
	symbols := cc.cfg.Theme.Symbols

	startX, startY := x+2, y+1
	for row := 0; row < strategy.Rows; row++ {
		for col := 0; col < strategy.Cols; col++ {
			style, r := eaten, symbols.Eaten
			if previewShape.Present(row, col) {
				style, r = cell, symbols.Cell
				if row == strategy.PoisonRow && col == strategy.PoisonCol {
					style, r = poison, symbols.Poison
				}
			}
			drawCell(screen, style, r, col, row, startX, startY)
		}
	}

	info := fmt.Sprintf("Board: %d  Chocolate: %d", cc.selectedBoardColor, cc.selectedCellColor)
	drawText(screen, startX, startY+strategy.Rows+1, info, tcell.StyleDefault)

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between board and chocolate color editing.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingCell = !cc.editingCell
	cc.populateColorList()
}
