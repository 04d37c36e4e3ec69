package gtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katasuji/types"
)

// bodyOf returns the lines between a dump's header and footer.
func bodyOf(dump string) []string {
	lines := strings.Split(dump, "\n")
	if Classify(lines[0]).Kind != KindBoardHeaderStart || Classify(lines[len(lines)-1]).Kind != KindBoardFooter {
		panic("malformed dump in test")
	}
	return lines[1 : len(lines)-1]
}

func TestReconstructEmptyBoard(t *testing.T) {
	stones, dims := ReconstructBoard(bodyOf("= MoveNum 0\n 2 . .\n 1 . .\nNext player: Black"))

	assert.Empty(t, stones.Black)
	assert.Empty(t, stones.White)
	assert.Empty(t, stones.MoveOrder)
	assert.NotNil(t, stones.MoveOrder)
	assert.Equal(t, types.BoardDimensions{Width: 2, Height: 2}, dims)
}

const sampleDump = `= MoveNum: 3 HASH: 0C1E4C7A3DFB6A1E
   A B C D E
 5 . . . . .
 4 . . . O2.
 3 . . X . .
 2 . X1. . X3
 1 . . . . .
Next player: White`

func TestReconstructStones(t *testing.T) {
	stones, dims := ReconstructBoard(bodyOf(sampleDump))

	assert.Equal(t, types.BoardDimensions{Width: 5, Height: 5}, dims)
	assert.ElementsMatch(t, []types.BoardPoint{{X: 2, Y: 2}, {X: 1, Y: 1}, {X: 4, Y: 1}}, stones.Black)
	assert.Equal(t, []types.BoardPoint{{X: 3, Y: 3}}, stones.White)
	assert.Equal(t, map[rune]types.BoardPoint{
		'1': {X: 1, Y: 1},
		'2': {X: 3, Y: 3},
		'3': {X: 4, Y: 1},
	}, stones.MoveOrder)
}

func TestReconstructTwoDigitRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("= MoveNum: 1\n")
	for row := 19; row >= 1; row-- {
		line := []byte(strings.Repeat(". ", 19))
		if row == 16 {
			line[2*15] = 'X'
		}
		b.WriteString(leftPad(row) + " " + string(line) + "\n")
	}
	b.WriteString("Next player: White")

	stones, dims := ReconstructBoard(bodyOf(b.String()))
	assert.Equal(t, types.BoardDimensions{Width: 19, Height: 19}, dims)
	require.Len(t, stones.Black, 1)
	v, ok := Decode("Q16")
	require.True(t, ok)
	assert.Equal(t, v.Point, stones.Black[0])
}

func leftPad(n int) string {
	if n < 10 {
		return " " + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func TestReconstructIdempotent(t *testing.T) {
	body := bodyOf(sampleDump)
	first, firstDims := ReconstructBoard(body)
	second, secondDims := ReconstructBoard(body)
	assert.Equal(t, first, second)
	assert.Equal(t, firstDims, secondDims)
}

func TestReconstructNoRows(t *testing.T) {
	stones, dims := ReconstructBoard(nil)
	assert.Empty(t, stones.Black)
	assert.Equal(t, types.BoardDimensions{}, dims)
}
