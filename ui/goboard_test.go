package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katasuji/config"
	"katasuji/session"
	"katasuji/types"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig
	return &cfg
}

func threeByThree() *session.View {
	stones := types.NewStoneSet()
	stones.Black = []types.BoardPoint{{X: 0, Y: 0}}
	stones.White = []types.BoardPoint{{X: 2, Y: 2}}
	stones.MoveOrder['1'] = types.BoardPoint{X: 0, Y: 0}
	stones.MoveOrder['2'] = types.BoardPoint{X: 2, Y: 2}

	snap := types.EmptySnapshot(types.Black)
	snap.Info[types.BoardPoint{X: 1, Y: 1}] = types.AnalysisInfo{Visits: 100, Winrate: 0.6}
	return &session.View{
		Stones:     stones,
		Dimensions: types.BoardDimensions{Width: 3, Height: 3},
		NextPlayer: types.Black,
		Analysis:   snap,
	}
}

func TestBoardDrawsBottomRowLast(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 10)

	board := NewGoBoard(testConfig())
	board.SetView(threeByThree())
	_, _, w, h := board.draw(screen, 0, 0, 40, 10)
	assert.Equal(t, 3*2+4, w)
	assert.Equal(t, 3+2, h)

	// (0,0) is the bottom-left point: screen row 2, column 4.
	r, _, _, _ := screen.GetContent(4, 2)
	assert.Equal(t, config.DefaultTheme.Symbols.BlackStone, r)
	marker, _, _, _ := screen.GetContent(5, 2)
	assert.Equal(t, '1', marker)

	// (2,2) is the top-right point.
	r, _, _, _ = screen.GetContent(8, 0)
	assert.Equal(t, config.DefaultTheme.Symbols.WhiteStone, r)

	// Candidate in the centre.
	r, _, _, _ = screen.GetContent(6, 1)
	assert.Equal(t, config.DefaultTheme.Symbols.Candidate, r)

	// Row labels count from the bottom, column letters along the foot.
	label, _, _, _ := screen.GetContent(2, 0)
	assert.Equal(t, '3', label)
	col, _, _, _ := screen.GetContent(4+2*2, 4)
	assert.Equal(t, 'C', col)
}

func TestBoardEmptyViewDrawsNothing(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()

	board := NewGoBoard(testConfig())
	_, _, w, h := board.draw(screen, 0, 0, 40, 10)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestMoveSelection(t *testing.T) {
	board := NewGoBoard(testConfig())
	board.MoveSelection(1, 0)
	assert.Nil(t, board.SelectedTile(), "no board yet")

	board.SetView(threeByThree())
	board.MoveSelection(1, 0)
	require.NotNil(t, board.SelectedTile())
	assert.Equal(t, types.BoardPoint{X: 2, Y: 2}, *board.SelectedTile(), "starts at the latest move")

	board.MoveSelection(0, 1) // down the screen
	assert.Equal(t, types.BoardPoint{X: 2, Y: 1}, *board.SelectedTile())

	board.MoveSelection(1, 0) // off the right edge
	assert.Equal(t, types.BoardPoint{X: 2, Y: 1}, *board.SelectedTile())

	board.ResetSelection()
	assert.Nil(t, board.SelectedTile())
}

func TestSetViewDropsOutOfRangeSelection(t *testing.T) {
	board := NewGoBoard(testConfig())
	big := threeByThree()
	big.Dimensions = types.BoardDimensions{Width: 19, Height: 19}
	board.SetView(big)
	board.MoveSelection(0, 0)
	require.NotNil(t, board.SelectedTile())
	board.MoveSelection(10, 0)
	board.MoveSelection(10, 0)

	board.SetView(threeByThree())
	assert.Nil(t, board.SelectedTile())
}

func TestIsHoshiPoint(t *testing.T) {
	count := func(w, h int) int {
		n := 0
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				if isHoshiPoint(x, y, w, h) {
					n++
				}
			}
		}
		return n
	}
	assert.Equal(t, 9, count(19, 19))
	assert.Equal(t, 5, count(13, 13))
	assert.Equal(t, 5, count(9, 9))
	assert.Equal(t, 0, count(7, 7))
	assert.Equal(t, 4, count(10, 10))
	assert.True(t, isHoshiPoint(3, 15, 19, 19))
	assert.True(t, isHoshiPoint(9, 3, 19, 19))
	assert.False(t, isHoshiPoint(6, 3, 13, 13))
}

func TestGetGridRune(t *testing.T) {
	assert.Equal(t, '┌', getGridRune(0, 0, 9, 9, false))
	assert.Equal(t, '┘', getGridRune(8, 8, 9, 9, false))
	assert.Equal(t, '┤', getGridRune(8, 4, 9, 9, false))
	assert.Equal(t, '┼', getGridRune(4, 4, 9, 9, false))
	assert.Equal(t, '◦', getGridRune(4, 4, 9, 9, true))
}

func TestOwnershipWhiteness(t *testing.T) {
	o := types.Ownership{Mean: 1}
	assert.Equal(t, 0.0, ownershipWhiteness(o, types.Black), "Black to play owns it")
	assert.Equal(t, 1.0, ownershipWhiteness(o, types.White), "White to play owns it")
	assert.Equal(t, 0.5, ownershipWhiteness(types.Ownership{}, types.Black))
}

func TestOwnershipShade(t *testing.T) {
	_, ok := ownershipShade(types.Ownership{Mean: 0.1}, types.Black)
	assert.False(t, ok, "too uncertain")

	c, ok := ownershipShade(types.Ownership{Mean: 1}, types.Black)
	assert.True(t, ok)
	assert.Equal(t, tcell.PaletteColor(232), c)

	c, ok = ownershipShade(types.Ownership{Mean: -1}, types.Black)
	assert.True(t, ok)
	assert.Equal(t, tcell.PaletteColor(255), c)

	stdev := 0.8
	_, ok = ownershipShade(types.Ownership{Mean: 0, Stdev: &stdev}, types.Black)
	assert.True(t, ok, "contested points are drawn")
}

func TestVisitColor(t *testing.T) {
	assert.Equal(t, tcell.PaletteColor(196), visitColor(100, 100))
	assert.Equal(t, tcell.PaletteColor(27), visitColor(0, 100))
}
