package sgf

import "katasuji/types"

// cell states of a Board
const (
	empty = iota
	black
	white
)

// Board is a replay board indexed as board[y][x], Y counted from the
// bottom like types.BoardPoint.
type Board [][]int

// MakeBoard creates an empty width x height board.
func MakeBoard(width, height int) Board {
	board := make(Board, height)
	for i := range board {
		board[i] = make([]int, width)
	}
	return board
}

func cellOf(c types.Color) int {
	if c == types.Black {
		return black
	}
	return white
}

func (b Board) inside(x, y int) bool {
	return y >= 0 && y < len(b) && x >= 0 && x < len(b[y])
}

// Set puts a stone without resolving captures, as setup properties do.
func (b Board) Set(p types.BoardPoint, c types.Color) {
	if b.inside(p.X, p.Y) {
		b[p.Y][p.X] = cellOf(c)
	}
}

// Place plays a stone and removes any opponent groups left without
// liberties. Points off the board are ignored.
func (b Board) Place(p types.BoardPoint, c types.Color) {
	if !b.inside(p.X, p.Y) {
		return
	}
	b[p.Y][p.X] = cellOf(c)
	b.removeCaptures(p.X, p.Y, cellOf(c.Opposite()))
}

// Stones returns the position as a StoneSet.
func (b Board) Stones() types.StoneSet {
	stones := types.NewStoneSet()
	for y := range b {
		for x, v := range b[y] {
			switch v {
			case black:
				stones.Black = append(stones.Black, types.BoardPoint{X: x, Y: y})
			case white:
				stones.White = append(stones.White, types.BoardPoint{X: x, Y: y})
			}
		}
	}
	return stones
}

var neighbours = [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// removeCaptures removes the opponent groups adjacent to (x, y) that have
// no liberties.
func (b Board) removeCaptures(x, y, opponent int) {
	for _, d := range neighbours {
		nx, ny := x+d[0], y+d[1]
		if !b.inside(nx, ny) || b[ny][nx] != opponent {
			continue
		}
		if !b.hasLiberties(nx, ny) {
			b.removeGroup(nx, ny, opponent)
		}
	}
}

// hasLiberties checks if the group at (x, y) has any liberties using flood fill.
func (b Board) hasLiberties(x, y int) bool {
	visited := make([][]bool, len(b))
	for i := range visited {
		visited[i] = make([]bool, len(b[i]))
	}
	return b.hasLibertiesDFS(visited, x, y, b[y][x])
}

func (b Board) hasLibertiesDFS(visited [][]bool, x, y, color int) bool {
	if !b.inside(x, y) || visited[y][x] {
		return false
	}
	if b[y][x] == empty {
		return true
	}
	if b[y][x] != color {
		return false
	}

	visited[y][x] = true
	for _, d := range neighbours {
		if b.hasLibertiesDFS(visited, x+d[0], y+d[1], color) {
			return true
		}
	}
	return false
}

// removeGroup removes all stones in the group at (x, y) of the given color.
func (b Board) removeGroup(x, y, color int) {
	if !b.inside(x, y) || b[y][x] != color {
		return
	}
	b[y][x] = empty
	for _, d := range neighbours {
		b.removeGroup(x+d[0], y+d[1], color)
	}
}
