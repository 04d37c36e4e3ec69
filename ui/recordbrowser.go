package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"katasuji/record"
	"katasuji/sgf"
	"katasuji/types"
)

const storeTimeout = 5 * time.Second

// RecordBrowserUI lists stored game records with a preview of the final
// position.
type RecordBrowserUI struct {
	flex     *tview.Flex
	list     *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	store    record.Store
	records  []record.GameRecord
	previews map[string]recordPreview
	selected int

	OnOpen   func(rec *record.GameRecord)
	OnNew    func()
	OnColors func()
	OnQuit   func()
}

type recordPreview struct {
	info   sgf.GameInfo
	stones types.StoneSet
}

// NewRecordBrowser creates the browser over store.
func NewRecordBrowser(store record.Store) *RecordBrowserUI {
	rb := &RecordBrowserUI{
		store:    store,
		previews: make(map[string]recordPreview),
	}

	rb.list = tview.NewList()
	rb.list.SetBorder(true)
	rb.list.SetTitle(" Game Records ")
	rb.list.ShowSecondaryText(false)
	rb.list.SetHighlightFullLine(true)
	rb.list.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	rb.list.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	rb.preview = tview.NewBox()
	rb.preview.SetBorder(true)
	rb.preview.SetTitle(" Preview ")
	rb.preview.SetDrawFunc(rb.drawPreview)

	rb.hint = tview.NewTextView()
	rb.hint.SetDynamicColors(true)
	rb.hint.SetBorder(false)
	rb.hint.SetText("  [dimgray]⏎[-] open  [dimgray]n[-] new game  [dimgray]d[-] delete  [dimgray]c[-] colors  [dimgray]q[-] quit")

	rb.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		rb.selected = index
	})
	rb.list.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		rb.openSelected()
	})
	rb.list.SetInputCapture(rb.handleInput)

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(rb.list, 42, 0, true).
		AddItem(rb.preview, 0, 1, false)

	rb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(rb.hint, 1, 0, false)

	rb.Refresh()
	return rb
}

// Flex returns the flex container for this UI.
func (rb *RecordBrowserUI) Flex() *tview.Flex {
	return rb.flex
}

// Refresh reloads the record list from the store.
func (rb *RecordBrowserUI) Refresh() {
	rb.previews = make(map[string]recordPreview)
	rb.list.Clear()
	rb.records = nil
	rb.selected = 0

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	recs, err := rb.store.List(ctx)
	if err != nil {
		rb.list.AddItem(colorTag(MenuColors.Error)+tview.Escape(err.Error())+"[-]", "", 0, nil)
		return
	}
	if len(recs) == 0 {
		rb.list.AddItem("[dimgray]No records, press n for a new game[-]", "", 0, nil)
		return
	}

	rb.records = recs
	for _, r := range recs {
		label := fmt.Sprintf("%s  %dx%d  %s", r.LastModified.Format("2006-01-02 15:04"), r.Config.Width, r.Config.Height, r.Name)
		rb.list.AddItem(tview.Escape(label), "", 0, nil)
	}
}

func (rb *RecordBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if rb.OnQuit != nil {
			rb.OnQuit()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if rb.OnQuit != nil {
				rb.OnQuit()
			}
			return nil
		case 'n':
			if rb.OnNew != nil {
				rb.OnNew()
			}
			return nil
		case 'c':
			if rb.OnColors != nil {
				rb.OnColors()
			}
			return nil
		case 'd':
			rb.deleteSelected()
			return nil
		}
	}
	return event
}

func (rb *RecordBrowserUI) current() (*record.GameRecord, bool) {
	if rb.selected < 0 || rb.selected >= len(rb.records) {
		return nil, false
	}
	return &rb.records[rb.selected], true
}

func (rb *RecordBrowserUI) openSelected() {
	rec, ok := rb.current()
	if !ok || rb.OnOpen == nil {
		return
	}
	opened := *rec
	rb.OnOpen(&opened)
}

func (rb *RecordBrowserUI) deleteSelected() {
	rec, ok := rb.current()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := rb.store.Delete(ctx, rec.ID); err != nil {
		rb.hint.SetText("  " + colorTag(MenuColors.Error) + tview.Escape(err.Error()) + "[-]")
		return
	}
	rb.Refresh()
}

func (rb *RecordBrowserUI) previewOf(rec *record.GameRecord) recordPreview {
	if p, ok := rb.previews[rec.ID]; ok {
		return p
	}
	stones, _ := sgf.ReplayToEnd(rec.SGF)
	p := recordPreview{info: sgf.ParseInfo(rec.SGF), stones: stones}
	rb.previews[rec.ID] = p
	return p
}

// drawPreview renders a mini board and the record's metadata.
func (rb *RecordBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	rec, ok := rb.current()
	if !ok {
		return x, y, width, height
	}
	p := rb.previewOf(rec)
	w, h := p.info.Width, p.info.Height

	startX := x + 2
	startY := y + 1
	if width < w+4 || height < h+8 {
		return x, y, width, height
	}

	emptyStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
	blackStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(255)).Bold(true)
	whiteStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))

	for row := 0; row < h; row++ {
		for bx := 0; bx < w; bx++ {
			ch := '·'
			style := emptyStyle
			if c, ok := p.stones.At(types.BoardPoint{X: bx, Y: h - 1 - row}); ok {
				if c == types.Black {
					ch, style = '●', blackStyle
				} else {
					ch, style = '○', whiteStyle
				}
			}
			screen.SetContent(startX+bx, startY+row, ch, nil, style)
		}
	}

	infoY := startY + h + 1
	infoStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	dimStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))

	drawText(screen, startX, infoY, fmt.Sprintf("%dx%d", w, h), infoStyle)
	drawText(screen, startX+7, infoY, fmt.Sprintf("| move %d of %d", rec.Cursor, p.info.MoveCount), dimStyle)

	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("Rules: %s  Komi: %s", p.info.Rules, formatKomi(p.info.Komi)), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("B: %s", p.info.PlayerBlack), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("W: %s", p.info.PlayerWhite), dimStyle)

	infoY++
	result := p.info.Result
	if result == "" || result == "?" {
		result = "Unfinished"
	}
	resultStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(109))
	drawText(screen, startX, infoY, fmt.Sprintf("Result: %s", result), resultStyle)

	return x, y, width, height
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
