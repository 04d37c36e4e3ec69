package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// MenuColors is the Nord-like palette shared by the non-board screens.
var MenuColors = struct {
	Border      tcell.Color
	CardBG      tcell.Color
	TitleAccent tcell.Color
	Label       tcell.Color
	Hint        tcell.Color
	ButtonBG    tcell.Color
	ButtonFocus tcell.Color
	ButtonText  tcell.Color
	Sent        tcell.Color // commands typed into the console
	Error       tcell.Color
}{
	Border:      tcell.PaletteColor(60),
	CardBG:      tcell.PaletteColor(236),
	TitleAccent: tcell.PaletteColor(109),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	ButtonBG:    tcell.PaletteColor(60),
	ButtonFocus: tcell.PaletteColor(109),
	ButtonText:  tcell.PaletteColor(255),
	Sent:        tcell.PaletteColor(110),
	Error:       tcell.PaletteColor(167),
}

// colorTag renders c as a tview color tag.
func colorTag(c tcell.Color) string {
	return fmt.Sprintf("[#%06x]", c.Hex())
}
