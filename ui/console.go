package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"katasuji/session"
)

// ConsoleUI shows the engine conversation and takes raw GTP commands.
type ConsoleUI struct {
	flex     *tview.Flex
	log      *tview.TextView
	input    *tview.InputField
	lastSeq  uint64
	onSubmit func(command string)
	onLeave  func()
}

// NewConsole creates the console. onSubmit receives each entered command;
// onLeave is called when the user escapes back to the board.
func NewConsole(onSubmit func(string), onLeave func()) *ConsoleUI {
	c := &ConsoleUI{
		onSubmit: onSubmit,
		onLeave:  onLeave,
	}

	c.log = tview.NewTextView()
	c.log.SetDynamicColors(true)
	c.log.SetScrollable(true)
	c.log.SetBorder(true)
	c.log.SetTitle(" Console ")
	c.log.SetTitleAlign(tview.AlignLeft)
	c.log.SetBorderColor(MenuColors.Border)

	c.input = tview.NewInputField()
	c.input.SetLabel("gtp> ")
	c.input.SetLabelColor(MenuColors.TitleAccent)
	c.input.SetFieldBackgroundColor(MenuColors.CardBG)
	c.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := strings.TrimSpace(c.input.GetText())
			c.input.SetText("")
			if text != "" && c.onSubmit != nil {
				c.onSubmit(text)
			}
		case tcell.KeyEscape:
			if c.onLeave != nil {
				c.onLeave()
			}
		}
	})

	c.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(c.log, 0, 1, false).
		AddItem(c.input, 1, 0, true)
	return c
}

// Flex returns the flex container for this UI.
func (c *ConsoleUI) Flex() *tview.Flex {
	return c.flex
}

// Input returns the command line, for focusing.
func (c *ConsoleUI) Input() *tview.InputField {
	return c.input
}

// Refresh redraws the log if console has new messages. It reports whether
// anything changed.
func (c *ConsoleUI) Refresh(console *session.Console) bool {
	seq := console.LastSeq()
	if seq == c.lastSeq {
		return false
	}
	c.lastSeq = seq
	c.log.SetText(consoleText(console.Messages()))
	c.log.ScrollToEnd()
	return true
}

func consoleText(msgs []session.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		if m.Sent {
			b.WriteString(colorTag(MenuColors.Sent) + "> ")
			b.WriteString(tview.Escape(m.Text))
			b.WriteString("[-]\n")
			continue
		}
		b.WriteString(tview.Escape(m.Text))
		b.WriteString("\n")
	}
	return b.String()
}
