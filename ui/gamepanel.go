package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rivo/tview"

	"katasuji/config"
	"katasuji/engine/gtp"
	"katasuji/session"
	"katasuji/types"
)

const (
	panelWidth     = 30
	maxCandidates  = 10
	winrateBarSize = 24
)

// AnalysisPanel shows the position summary and the engine's candidates next
// to the board.
type AnalysisPanel struct {
	box      *tview.TextView
	cfg      *config.Config
	view     *session.View
	selected *types.BoardPoint
}

// NewAnalysisPanel creates an empty panel.
func NewAnalysisPanel(cfg *config.Config) *AnalysisPanel {
	panel := &AnalysisPanel{
		box:  tview.NewTextView(),
		cfg:  cfg,
		view: &session.View{},
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *AnalysisPanel) Box() *tview.TextView {
	return p.box
}

// SetView updates the panel with the latest session state and cursor.
func (p *AnalysisPanel) SetView(v *session.View, selected *types.BoardPoint) {
	p.view = v
	p.selected = selected
	p.box.SetText(panelText(v, selected, p.cfg.Analysis.Information, p.cfg.Analysis.HiddenVisitRatio))
}

func panelText(v *session.View, selected *types.BoardPoint, info config.Information, hiddenRatio float64) string {
	var b strings.Builder

	b.WriteString("[white::b]Game[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	fmt.Fprintf(&b, "[white]Size:[-:-:-] %dx%d\n", v.Config.Width, v.Config.Height)
	if v.Config.Rule >= 0 && v.Config.Rule < len(gtp.Rules) {
		fmt.Fprintf(&b, "[white]Rules:[-:-:-] %s\n", gtp.RuleName(v.Config.Rule))
	}
	fmt.Fprintf(&b, "[white]Komi:[-:-:-] %s\n", formatKomi(v.Config.Komi))
	fmt.Fprintf(&b, "[white]Move:[-:-:-] %d\n", v.Cursor)
	fmt.Fprintf(&b, "[white]To play:[-:-:-] %s\n", v.NextPlayer)

	b.WriteString("\n[white::b]Analysis[-:-:-]")
	fmt.Fprintf(&b, " [dimgray](%s)[-]\n", v.State)
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	if v.Stalled {
		b.WriteString(colorTag(MenuColors.Error) + "engine not responding[-]\n")
	}
	if v.Analysis.IsEmpty() {
		b.WriteString("[dimgray]  (no analysis)[-]\n")
		return b.String()
	}

	black := v.Analysis.WeightedWinrate()
	fmt.Fprintf(&b, "B %s W\n", winrateBar(black, winrateBarSize))
	fmt.Fprintf(&b, "[white]Black:[-:-:-] %s\n", formatWinrate(black))

	points := candidatesByVisits(v.Analysis)
	if len(points) > 0 {
		best := v.Analysis.Info[points[0]]
		fmt.Fprintf(&b, "[white]Lead:[-:-:-] %s %s\n", leader(best.ScoreLead, v.Analysis.Perspective), formatScore(abs(best.ScoreLead)))
	}

	b.WriteString("\n")
	for i, pt := range points {
		if i == maxCandidates {
			fmt.Fprintf(&b, "[dimgray]  ··· %d more[-]\n", len(points)-maxCandidates)
			break
		}
		hidden := v.Analysis.IsHidden(pt, hiddenRatio)
		marker := " "
		if selected != nil && *selected == pt {
			marker = "[yellow]>[-]"
		}
		colour := "white"
		if hidden {
			colour = "dimgray"
		}
		fmt.Fprintf(&b, "%s[%s]%-4s %s[-]\n", marker, colour, gtp.Encode(pt.X, pt.Y), candidateText(v.Analysis.Info[pt], info))
	}

	if selected != nil {
		if ci, ok := v.Analysis.Info[*selected]; ok {
			fmt.Fprintf(&b, "\n[yellow]%s[-] %s\n", gtp.Encode(selected.X, selected.Y), candidateText(ci, config.InformationAll))
		}
		if o, ok := v.Analysis.Ownership[*selected]; ok {
			fmt.Fprintf(&b, "[white]Owner:[-:-:-] %s\n", ownershipText(o, v.Analysis.Perspective))
		}
	}
	return b.String()
}

// candidatesByVisits orders candidates by visits, most first; ties by point.
func candidatesByVisits(a types.AnalysisSnapshot) []types.BoardPoint {
	points := a.SortedPoints()
	sort.SliceStable(points, func(i, j int) bool {
		return a.Info[points[i]].Visits > a.Info[points[j]].Visits
	})
	return points
}

func candidateText(info types.AnalysisInfo, what config.Information) string {
	switch what {
	case config.InformationWinrate:
		return formatWinrate(info.Winrate)
	case config.InformationScore:
		return formatScore(info.ScoreLead)
	default:
		return fmt.Sprintf("%s %s %s", formatWinrate(info.Winrate), formatVisits(info.Visits), formatScore(info.ScoreLead))
	}
}

func ownershipText(o types.Ownership, perspective types.Color) string {
	whiteness := ownershipWhiteness(o, perspective)
	owner := "B"
	share := 1 - whiteness
	if whiteness > 0.5 {
		owner = "W"
		share = whiteness
	}
	text := fmt.Sprintf("%s %.0f%%", owner, share*100)
	if o.Stdev != nil {
		text += fmt.Sprintf(" ±%.2f", *o.Stdev)
	}
	return text
}

func leader(scoreLead float64, perspective types.Color) string {
	if (scoreLead >= 0) == (perspective == types.Black) {
		return "B"
	}
	return "W"
}

func winrateBar(black float64, size int) string {
	n := int(black*float64(size) + 0.5)
	if n < 0 {
		n = 0
	}
	if n > size {
		n = size
	}
	return "[black:white]" + strings.Repeat("█", n) + "[white:black]" + strings.Repeat("█", size-n) + "[-:-]"
}

func formatWinrate(w float64) string {
	return fmt.Sprintf("%2.0f%%", w*100)
}

func formatScore(s float64) string {
	return fmt.Sprintf("%+.1f", s)
}

func formatKomi(k float64) string {
	return fmt.Sprintf("%.1f", k)
}

// formatVisits abbreviates visit counts with SI prefixes.
func formatVisits(n int) string {
	prefixes := []struct {
		prefix string
		value  int
	}{
		{"G", 1_000_000_000},
		{"M", 1_000_000},
		{"k", 1_000},
	}
	for _, p := range prefixes {
		if n >= p.value {
			return fmt.Sprintf("%.1f%s", float64(n)/float64(p.value), p.prefix)
		}
	}
	return fmt.Sprint(n)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// StatusText is the key hint shown under the board.
func StatusText(v *session.View, focus bool) string {
	if focus {
		return "  f to toggle"
	}
	turn := fmt.Sprintf("  ● %s to play", v.NextPlayer)
	if v.NextPlayer == types.White {
		turn = fmt.Sprintf("  ○ %s to play", v.NextPlayer)
	}
	return turn + `   hjkl/↑↓←→ move  ⏎ play  p pass  u undo  n next  a analyse  s stop
  r refresh  o ownership  c clear  g settings  : console  f focus  q records`
}

// CreateGameLayout creates the main game layout: board and analysis panel
// on top, console and status below.
func CreateGameLayout(board *GoBoardUI, panel *AnalysisPanel, console *ConsoleUI, hint *tview.TextView) *tview.Flex {
	gameFrame := tview.NewFlex()
	RebuildNormalLayout(gameFrame, board, panel, console, hint)
	return gameFrame
}

// RebuildNormalLayout restores the normal game layout.
func RebuildNormalLayout(gameFrame *tview.Flex, board *GoBoardUI, panel *AnalysisPanel, console *ConsoleUI, hint *tview.TextView) {
	gameFrame.Clear()

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(panel.Box(), panelWidth, 0, false)

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 3, true)
	gameFrame.AddItem(console.Flex(), 0, 1, false)
	gameFrame.AddItem(hint, 3, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *GoBoardUI) {
	gameFrame.Clear()

	boardWidth := 22
	boardHeight := 11
	if board.width() > 0 {
		boardWidth = board.width()*2 + 4
		boardHeight = board.height() + 2
	}

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardWidth, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardHeight, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}

// CreateCenteredForm creates a centered container for a form.
func CreateCenteredForm(form tview.Primitive, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)

	return centered
}
