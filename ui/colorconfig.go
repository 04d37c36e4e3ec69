package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"katasuji/config"
)

type colorMode int

const (
	editBoard colorMode = iota
	editLine
	editCandidate
	colorModes
)

func (m colorMode) String() string {
	switch m {
	case editLine:
		return "Line"
	case editCandidate:
		return "Candidate"
	default:
		return "Board"
	}
}

type namedColor struct {
	code int
	name string
}

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	cfgPath   string
	onDone    func()

	selected map[colorMode]int
	mode     colorMode
}

// Common board colors to choose from (warm wood-like tones)
var boardColors = []namedColor{
	{230, "Light Cream"},
	{229, "Pale Yellow"},
	{228, "Light Gold"},
	{222, "Gold"},
	{220, "Bright Yellow"},
	{214, "Orange Gold"},
	{208, "Dark Orange"},
	{180, "Tan"},
	{179, "Light Brown"},
	{172, "Brown"},
	{136, "Dark Brown"},
	{94, "Saddle Brown"},
	{252, "Light Gray"},
	{250, "Gray"},
	{248, "Medium Gray"},
	{244, "Dark Gray"},
	{188, "Light Beige"},
	{181, "Dusty Rose"},
	{223, "Peach"},
	{216, "Salmon"},
}

// Line colors (darker tones that contrast with board)
var lineColors = []namedColor{
	{94, "Saddle Brown"},
	{130, "Dark Orange"},
	{136, "Dark Brown"},
	{88, "Dark Red"},
	{52, "Dark Maroon"},
	{22, "Dark Green"},
	{23, "Teal"},
	{24, "Dark Cyan"},
	{17, "Navy Blue"},
	{54, "Purple"},
	{232, "Black"},
	{236, "Dark Gray"},
	{240, "Gray"},
	{244, "Medium Gray"},
	{16, "True Black"},
}

// Candidate marker colors (saturated, readable on wood)
var candidateColors = []namedColor{
	{33, "Blue"},
	{27, "Deep Blue"},
	{45, "Cyan"},
	{39, "Sky Blue"},
	{35, "Green"},
	{129, "Violet"},
	{161, "Magenta"},
	{160, "Red"},
}

func (m colorMode) palette() []namedColor {
	switch m {
	case editLine:
		return lineColors
	case editCandidate:
		return candidateColors
	default:
		return boardColors
	}
}

// NewColorConfig creates the color configuration screen. Confirmed choices
// are written to the config file at cfgPath (the xdg default when empty).
func NewColorConfig(cfg *config.Config, cfgPath string, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:     cfg,
		cfgPath: cfgPath,
		onDone:  onDone,
		selected: map[colorMode]int{
			editBoard:     cfg.Theme.Colors.BoardColor,
			editLine:      cfg.Theme.Colors.LineColor,
			editCandidate: cfg.Theme.Colors.CandidateColor,
		},
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		palette := cc.mode.palette()
		if index >= 0 && index < len(palette) {
			cc.selected[cc.mode] = palette[index].code
		}
	})

	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		cc.apply()
		if err := cc.cfg.Save(cc.cfgPath); err != nil {
			cc.colorList.SetTitle(fmt.Sprintf(" Save failed: %s ", err))
			return
		}
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

// apply copies every selection into the theme.
func (cc *ColorConfigUI) apply() {
	cc.cfg.Theme.Colors.BoardColor = cc.selected[editBoard]
	cc.cfg.Theme.Colors.BoardColorAlt = cc.selected[editBoard]
	cc.cfg.Theme.Colors.LineColor = cc.selected[editLine]
	cc.cfg.Theme.Colors.CandidateColor = cc.selected[editCandidate]
}

func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()
	next := (cc.mode + 1) % colorModes
	cc.colorList.SetTitle(fmt.Sprintf(" %s Color (Tab: %s) ", cc.mode, next))
	palette := cc.mode.palette()
	for i, c := range palette {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range palette {
		if c.code == cc.selected[cc.mode] {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	boardColor := tcell.PaletteColor(cc.selected[editBoard])
	blackColor := tcell.PaletteColor(cc.cfg.Theme.Colors.BlackColor)
	whiteColor := tcell.PaletteColor(cc.cfg.Theme.Colors.WhiteColor)
	lineColor := tcell.PaletteColor(cc.selected[editLine])
	candidateColor := tcell.PaletteColor(cc.selected[editCandidate])

	boardStyle := tcell.StyleDefault.Background(boardColor).Foreground(lineColor)
	blackStyle := tcell.StyleDefault.Background(boardColor).Foreground(blackColor)
	whiteStyle := tcell.StyleDefault.Background(boardColor).Foreground(whiteColor)
	candidateStyle := tcell.StyleDefault.Background(boardColor).Foreground(candidateColor)

	startX := x + 2
	startY := y + 1
	size := 7

	if width < 20 || height < 10 {
		return x, y, width, height
	}

	stones := map[[2]int]int{
		{2, 2}: 1,
		{2, 3}: 1,
		{3, 2}: 2,
		{3, 3}: 2,
		{4, 4}: 1,
		{3, 4}: 2,
	}
	candidates := map[[2]int]bool{{4, 2}: true, {2, 4}: true}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			screenX := startX + col*2
			screenY := startY + row

			char := getGridRune(col, row, size, size, false)
			style := boardStyle
			if stoneColor, ok := stones[[2]int{col, row}]; ok {
				char = cc.cfg.Theme.Symbols.BlackStone
				style = blackStyle
				if stoneColor == 2 {
					char = cc.cfg.Theme.Symbols.WhiteStone
					style = whiteStyle
				}
			} else if candidates[[2]int{col, row}] {
				char = cc.cfg.Theme.Symbols.Candidate
				style = candidateStyle
			}

			screen.SetContent(screenX, screenY, char, nil, style)

			if col < size-1 {
				connector := '─'
				_, hasStoneRight := stones[[2]int{col + 1, row}]
				_, hasStone := stones[[2]int{col, row}]
				if hasStoneRight || hasStone || candidates[[2]int{col, row}] {
					connector = ' '
				}
				screen.SetContent(screenX+1, screenY, connector, nil, boardStyle)
			}
		}
	}

	info := fmt.Sprintf("Board: %d  Line: %d  Candidate: %d",
		cc.selected[editBoard], cc.selected[editLine], cc.selected[editCandidate])
	drawText(screen, startX, startY+size+1, info, tcell.StyleDefault)

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

// ToggleMode cycles between the board, line and candidate palettes.
func (cc *ColorConfigUI) ToggleMode() {
	cc.mode = (cc.mode + 1) % colorModes
	cc.populateColorList()
}
