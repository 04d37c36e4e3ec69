package gtp

import (
	"strconv"
	"strings"

	"katasuji/types"
)

// showboard body rows look like
//
//	19 . . X O . ...
//	 3 . X1. . ...
//
// A two character row label, a space, then one glyph and one trailing
// character per column. Recent moves are numbered in the trailing slot.
const (
	rowLabelWidth = 2
	cellOffset    = 3
)

// rowNumber parses the row label of a body line.
func rowNumber(line string) (int, bool) {
	if len(line) < rowLabelWidth {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[:rowLabelWidth]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsBoardRow reports whether line is a showboard body row.
func IsBoardRow(line string) bool {
	_, ok := rowNumber(line)
	return ok
}

// ReconstructBoard rebuilds the stone layout from the lines of one board
// dump, header and footer excluded. Lines that do not start with a row
// number, such as the column letters, are ignored.
func ReconstructBoard(lines []string) (types.StoneSet, types.BoardDimensions) {
	stones := types.NewStoneSet()

	var rows []string
	for _, line := range lines {
		if IsBoardRow(line) {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return stones, types.BoardDimensions{}
	}

	dims := types.BoardDimensions{
		Width:  (len(rows[len(rows)-1]) - rowLabelWidth) / 2,
		Height: len(rows),
	}

	for _, row := range rows {
		n, _ := rowNumber(row)
		y := n - 1
		if len(row) <= cellOffset {
			continue
		}
		for i, c := range row[cellOffset:] {
			x := i / 2
			p := types.BoardPoint{X: x, Y: y}
			switch {
			case c == 'X':
				stones.Black = append(stones.Black, p)
			case c == 'O':
				stones.White = append(stones.White, p)
			case c >= '0' && c <= '9':
				stones.MoveOrder[c] = p
			}
		}
	}

	return stones, dims
}
