// Package ui specifies custom controls for tview to analyse Go positions with KataGo in the terminal.
package ui

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"katasuji/config"
	"katasuji/engine/gtp"
	"katasuji/session"
	"katasuji/types"
)

// Style slots.
const (
	styleBoard = iota
	styleBlack
	styleWhite
	styleBoardAlt
	styleBlackAlt
	styleWhiteAlt
	styleCursorFG
	styleLastPlayed
	styleCursorBG
	styleLine
	styleCandidate
	styleBestMove
)

type GoBoardUI struct {
	Box           *tview.Box
	view          *session.View
	cfg           *config.Config
	selX          int
	selY          int
	styles        []tcell.Color
	showOwnership bool
}

func (g *GoBoardUI) width() int  { return g.view.Dimensions.Width }
func (g *GoBoardUI) height() int { return g.view.Dimensions.Height }

// SelectedTile returns the cursor position in board coordinates (Y=0 is the
// bottom row), or nil when nothing is selected.
func (g *GoBoardUI) SelectedTile() *types.BoardPoint {
	if g.selX == -1 && g.selY == -1 {
		return nil
	}
	return &types.BoardPoint{X: g.selX, Y: g.selY}
}

// MoveSelection moves the cursor by h columns and v screen rows.
func (g *GoBoardUI) MoveSelection(h, v int) {
	if g.width() == 0 {
		return
	}
	if g.SelectedTile() == nil {
		g.selX = g.width() / 2
		g.selY = g.height() / 2
		if p, ok := g.view.Stones.MoveOrder[latestMoveMarker(g.view.Stones)]; ok {
			g.selX, g.selY = p.X, p.Y
		}
		return
	}
	// Screen rows grow downwards, board rows upwards.
	nx, ny := g.selX+h, g.selY-v
	if nx < 0 || nx >= g.width() || ny < 0 || ny >= g.height() {
		return
	}
	g.selX, g.selY = nx, ny
}

func (g *GoBoardUI) ResetSelection() {
	g.selX = -1
	g.selY = -1
}

// ToggleOwnership switches the ownership shading and returns the new state.
func (g *GoBoardUI) ToggleOwnership() bool {
	g.showOwnership = !g.showOwnership
	return g.showOwnership
}

// SetView replaces the position being drawn.
func (g *GoBoardUI) SetView(v *session.View) {
	g.view = v
	if g.selX >= g.width() || g.selY >= g.height() {
		g.ResetSelection()
	}
}

func NewGoBoard(c *config.Config) *GoBoardUI {
	goBoard := &GoBoardUI{
		Box:           tview.NewBox(),
		view:          &session.View{},
		selX:          -1,
		selY:          -1,
		showOwnership: true,
	}
	goBoard.SetConfig(c)
	goBoard.Box.SetDrawFunc(goBoard.draw)
	return goBoard
}

func (g *GoBoardUI) draw(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
	w, h := g.width(), g.height()
	if w == 0 || h == 0 {
		return x, y, 1, 1
	}
	theme := g.cfg.Theme
	v := g.view
	maxVisits := v.Analysis.MaxVisits()
	bestLcb, hasBest := v.Analysis.MaxUtilityLcb()
	order := moveOrderAt(v.Stones)

	for row := 0; row < h; row++ {
		boardY := h - 1 - row
		for boardX := 0; boardX < w; boardX++ {
			p := types.BoardPoint{X: boardX, Y: boardY}
			stone, occupied := v.Stones.At(p)

			bg := styleBoard
			if (boardX%2 + row%2) == 1 {
				bg = styleBoardAlt
			}
			if occupied && theme.DrawStoneBackground {
				bg = stoneStyle(stone)
			}
			if boardX == g.selX && boardY == g.selY && theme.DrawCursorBackground {
				bg = styleCursorBG
			} else if order == p && theme.DrawLastPlayedBackground {
				bg = styleLastPlayed
			}
			style := tcell.StyleDefault.Background(g.styles[bg])

			if occupied {
				drawRune := theme.Symbols.BlackStone
				if stone == types.White {
					drawRune = theme.Symbols.WhiteStone
				}
				fg := g.styles[stoneStyle(stone)]
				if theme.DrawStoneBackground {
					fg = g.styles[stoneStyle(stone.Opposite())]
				}
				second := ' '
				if marker, ok := markerAt(v.Stones, p); ok {
					second = marker
				}
				drawStoneCell(screen, style.Foreground(fg), drawRune, second, boardX, row, x+4, y)
				continue
			}

			if info, ok := v.Analysis.Info[p]; ok {
				slot := styleCandidate
				if hasBest && info.UtilityLcb == bestLcb {
					slot = styleBestMove
				}
				mark := theme.Symbols.Candidate
				if v.Analysis.IsHidden(p, g.cfg.Analysis.HiddenVisitRatio) {
					mark = '·'
				}
				fg := g.styles[slot]
				if maxVisits > 0 && !v.Analysis.IsHidden(p, g.cfg.Analysis.HiddenVisitRatio) {
					fg = visitColor(info.Visits, maxVisits)
				}
				drawStoneCell(screen, style.Foreground(fg), mark, ' ', boardX, row, x+4, y)
				continue
			}

			if g.showOwnership {
				if o, ok := v.Analysis.Ownership[p]; ok {
					if shade, ok := ownershipShade(o, v.Analysis.Perspective); ok {
						drawGridCell(screen, style.Foreground(shade), '▪', boardX, row, x+4, y, w, g.hasStoneRight(p))
						continue
					}
				}
			}

			drawRune := theme.Symbols.BoardSquare
			if theme.UseGridLines {
				drawRune = getGridRune(boardX, row, w, h, isHoshiPoint(boardX, boardY, w, h))
			}
			if boardX == g.selX && boardY == g.selY && !theme.DrawCursorBackground && !theme.UseGridLines {
				drawRune = theme.Symbols.Cursor
			}
			if theme.UseGridLines {
				drawGridCell(screen, style.Foreground(g.styles[styleLine]), drawRune, boardX, row, x+4, y, w, g.hasStoneRight(p))
			} else {
				drawStoneCell(screen, style.Foreground(g.styles[styleLine]), drawRune, ' ', boardX, row, x+4, y)
			}
		}
	}
	drawCoordinates(screen, x, y, g)
	return x, y, w*2 + 4, h + 2
}

func (g *GoBoardUI) hasStoneRight(p types.BoardPoint) bool {
	if p.X >= g.width()-1 {
		return false
	}
	_, ok := g.view.Stones.At(types.BoardPoint{X: p.X + 1, Y: p.Y})
	return ok
}

func stoneStyle(c types.Color) int {
	if c == types.White {
		return styleWhite
	}
	return styleBlack
}

func (g *GoBoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),        // styleBoard
		tcell.PaletteColor(c.Theme.Colors.BlackColor),        // styleBlack
		tcell.PaletteColor(c.Theme.Colors.WhiteColor),        // styleWhite
		tcell.PaletteColor(c.Theme.Colors.BoardColorAlt),     // styleBoardAlt
		tcell.PaletteColor(c.Theme.Colors.BlackColorAlt),     // styleBlackAlt
		tcell.PaletteColor(c.Theme.Colors.WhiteColorAlt),     // styleWhiteAlt
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG),     // styleCursorFG
		tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG), // styleLastPlayed
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG),     // styleCursorBG
		tcell.PaletteColor(c.Theme.Colors.LineColor),         // styleLine
		tcell.PaletteColor(c.Theme.Colors.CandidateColor),    // styleCandidate
		tcell.PaletteColor(c.Theme.Colors.BestMoveColor),     // styleBestMove
	}
	g.cfg = c
}

// latestMoveMarker returns the highest move-order marker on the board.
func latestMoveMarker(s types.StoneSet) rune {
	var latest rune
	for r := range s.MoveOrder {
		if r > latest {
			latest = r
		}
	}
	return latest
}

// moveOrderAt returns the point carrying the latest move-order marker.
func moveOrderAt(s types.StoneSet) types.BoardPoint {
	if p, ok := s.MoveOrder[latestMoveMarker(s)]; ok {
		return p
	}
	return types.BoardPoint{X: -1, Y: -1}
}

func markerAt(s types.StoneSet, p types.BoardPoint) (rune, bool) {
	for r, q := range s.MoveOrder {
		if q == p {
			return r, true
		}
	}
	return 0, false
}

// ownershipWhiteness maps an ownership mean, given from the side to move, to
// 0 (Black owns) .. 1 (White owns).
func ownershipWhiteness(o types.Ownership, perspective types.Color) float64 {
	if perspective == types.White {
		return (o.Mean + 1) / 2
	}
	return (-o.Mean + 1) / 2
}

// ownershipShade returns a grey for the owner of an empty point, or false
// when the estimate is too uncertain to draw.
func ownershipShade(o types.Ownership, perspective types.Color) (tcell.Color, bool) {
	whiteness := ownershipWhiteness(o, perspective)
	definiteness := math.Abs(whiteness-0.5) * 2
	spread := 0.0
	if o.Stdev != nil {
		spread = *o.Stdev
	}
	if math.Max(definiteness, spread) < 0.4 {
		return tcell.ColorDefault, false
	}
	// 232..255 is the greyscale ramp.
	return tcell.PaletteColor(232 + int(math.Round(whiteness*23))), true
}

// visitColor ranks a candidate from cool (few visits) to warm (most visits).
func visitColor(visits, maxVisits int) tcell.Color {
	ramp := []int{27, 33, 39, 45, 48, 118, 190, 220, 208, 196}
	ratio := float64(visits) / float64(maxVisits)
	i := int(ratio * float64(len(ramp)-1))
	if i < 0 {
		i = 0
	}
	if i >= len(ramp) {
		i = len(ramp) - 1
	}
	return tcell.PaletteColor(ramp[i])
}

// drawStoneCell draws a 2-character cell: the point itself and a trailing
// rune (a move-order marker or a space).
func drawStoneCell(s tcell.Screen, c tcell.Style, r, trailing rune, x, y, l, t int) {
	s.SetContent(l+x*2, t+y, r, nil, c)
	s.SetContent(l+x*2+1, t+y, trailing, nil, c)
}

// drawGridCell draws a cell using box-drawing characters for grid lines
func drawGridCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t, boardWidth int, hasStoneRight bool) {
	s.SetContent(l+x*2, t+y, r, nil, c)

	rightConn := '─'
	if x == boardWidth-1 || hasStoneRight {
		rightConn = ' '
	}
	s.SetContent(l+x*2+1, t+y, rightConn, nil, c)
}

// getGridRune returns the box-drawing character for a screen position
func getGridRune(x, row, width, height int, isHoshi bool) rune {
	if isHoshi {
		return '◦'
	}

	isTop := row == 0
	isBottom := row == height-1
	isLeft := x == 0
	isRight := x == width-1

	switch {
	case isTop && isLeft:
		return '┌'
	case isTop && isRight:
		return '┐'
	case isBottom && isLeft:
		return '└'
	case isBottom && isRight:
		return '┘'
	case isTop:
		return '┬'
	case isBottom:
		return '┴'
	case isLeft:
		return '├'
	case isRight:
		return '┤'
	default:
		return '┼'
	}
}

// isHoshiPoint reports whether (x, y) is a star point. Boards of 9 or more
// lines get corner points on the third or fourth line and, when odd, the
// centre. Odd boards of 15 or more also get side points.
func isHoshiPoint(x, y, width, height int) bool {
	lines := func(size int) []int {
		switch {
		case size < 9:
			return nil
		case size < 13:
			return []int{2, size - 3}
		default:
			return []int{3, size - 4}
		}
	}
	onLine := func(v int, pts []int) bool {
		for _, p := range pts {
			if v == p {
				return true
			}
		}
		return false
	}

	xs, ys := lines(width), lines(height)
	if width%2 == 1 && width >= 9 && height%2 == 1 && height >= 9 && x == width/2 && y == height/2 {
		return true
	}
	if width%2 == 1 && width >= 15 {
		xs = append(xs, width/2)
	}
	if height%2 == 1 && height >= 15 {
		ys = append(ys, height/2)
	}
	return onLine(x, xs) && onLine(y, ys)
}

func drawCoordinates(s tcell.Screen, x, y int, ui *GoBoardUI) {
	w, h := ui.width(), ui.height()

	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(ui.styles[styleCursorBG])
	last := moveOrderAt(ui.view.Stones)
	lpHighlight := tcell.StyleDefault.Background(ui.styles[styleLastPlayed])

	for ix := 0; ix < w; ix++ {
		_style := style
		if ix == ui.selX {
			_style = highlight
		} else if ix == last.X {
			_style = lpHighlight
		}
		name := []rune(gtp.ColumnName(ix))
		if ui.cfg.Theme.FullWidthLetters && len(name) == 1 {
			name[0] = name[0] - 'A' + 'Ａ'
		}
		second := ' '
		if len(name) > 1 {
			second = name[1]
		}
		s.SetContent(x+4+(ix*2), y+h+1, name[0], nil, _style)
		s.SetContent(x+4+(ix*2)+1, y+h+1, second, nil, _style)
	}

	for row := 0; row < h; row++ {
		boardY := h - 1 - row
		_style := style
		if boardY == ui.selY {
			_style = highlight
		} else if boardY == last.Y {
			_style = lpHighlight
		}
		displayNum := boardY + 1
		tensRune := ' '
		if displayNum >= 10 {
			tensRune = rune('0' + displayNum/10)
		}
		s.SetContent(x+1, y+row, tensRune, nil, _style)
		s.SetContent(x+2, y+row, rune('0'+(displayNum%10)), nil, _style)
	}
}
