// Package gtp speaks KataGo's flavour of the Go Text Protocol: coordinates,
// command lines, and the parsers for board dumps, analysis and SGF dumps.
package gtp

import (
	"strconv"
	"strings"

	"katasuji/types"
)

// GTP coordinate system:
// - Columns: A-Z skipping I, then AA, AB, AC, AD (boards up to 29 wide)
// - Rows: 1-based from the bottom of the board
// - Example: D4, Q16, AD29
//
// katasuji coordinate system (types.BoardPoint):
// - X: column, 0-based
// - Y: row number - 1, so "A1" is (0, 0)

// columnLetters lists the column names in order.
var columnLetters = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "J", "K",
	"L", "M", "N", "O", "P", "Q", "R", "S", "T", "U",
	"V", "W", "X", "Y", "Z", "AA", "AB", "AC", "AD",
}

var columnIndex = func() map[string]int {
	m := make(map[string]int, len(columnLetters))
	for i, l := range columnLetters {
		m[l] = i
	}
	return m
}()

// MaxColumns is the widest board the codec can name.
const MaxColumns = 29

// Pass is the vertex text for a pass move.
const Pass = "pass"

// Vertex is a decoded move location.
type Vertex struct {
	Point types.BoardPoint
	Pass  bool
}

// ColumnName returns the letter(s) for column x, or "" when out of range.
func ColumnName(x int) string {
	if x < 0 || x >= len(columnLetters) {
		return ""
	}
	return columnLetters[x]
}

// Encode converts a board point to GTP notation: (0, 0) -> A1, (8, 3) -> J4.
// It returns "" for a column the codec cannot name.
func Encode(x, y int) string {
	col := ColumnName(x)
	if col == "" || y < 0 {
		return ""
	}
	return col + strconv.Itoa(y+1)
}

// EncodeMove returns the vertex text for a move, "pass" for passes.
func EncodeMove(m types.Move) string {
	if m.Pass {
		return Pass
	}
	return Encode(m.Point.X, m.Point.Y)
}

// Decode parses GTP notation. Letters are case-insensitive. "pass" decodes to
// a pass vertex. Malformed text (no letters, unknown letters such as "I",
// non-numeric or zero row) returns false.
func Decode(text string) (Vertex, bool) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "PASS" {
		return Vertex{Pass: true}, true
	}

	split := 0
	for split < len(text) && text[split] >= 'A' && text[split] <= 'Z' {
		split++
	}
	if split == 0 || split == len(text) {
		return Vertex{}, false
	}

	x, ok := columnIndex[text[:split]]
	if !ok {
		return Vertex{}, false
	}

	digits := text[split:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Vertex{}, false
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return Vertex{}, false
	}

	return Vertex{Point: types.BoardPoint{X: x, Y: row - 1}}, true
}
