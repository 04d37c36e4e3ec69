package sgf

import (
	"strconv"
	"strings"

	"katasuji/types"
)

// GameInfo holds metadata parsed from an SGF root node.
type GameInfo struct {
	Width       int
	Height      int
	Komi        float64
	Rules       string
	PlayerBlack string
	PlayerWhite string
	Date        string
	Result      string
	MoveCount   int
}

// ParseInfo extracts metadata from the root node of an SGF string.
func ParseInfo(content string) GameInfo {
	props := parseProperties(content)
	w, h := parseSize(props["SZ"])

	komi := 0.0
	if v, ok := props["KM"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			komi = f
		}
	}

	return GameInfo{
		Width:       w,
		Height:      h,
		Komi:        komi,
		Rules:       props["RU"],
		PlayerBlack: props["PB"],
		PlayerWhite: props["PW"],
		Date:        props["DT"],
		Result:      props["RE"],
		MoveCount:   countMoves(content),
	}
}

// parseSize reads SZ[19] or SZ[19:13]. A missing or bad value means 19x19.
func parseSize(v string) (int, int) {
	if v == "" {
		return 19, 19
	}
	if w, h, ok := strings.Cut(v, ":"); ok {
		wn, err1 := strconv.Atoi(strings.TrimSpace(w))
		hn, err2 := strconv.Atoi(strings.TrimSpace(h))
		if err1 == nil && err2 == nil && wn > 0 && hn > 0 {
			return wn, hn
		}
		return 19, 19
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 19, 19
	}
	return n, n
}

// ReplayToEnd replays the main line and returns the final position with
// captures removed, along with the number of moves played.
func ReplayToEnd(content string) (types.StoneSet, int) {
	info := ParseInfo(content)
	board := MakeBoard(info.Width, info.Height)

	applySetup(content, board, info.Width, info.Height)

	moveCount := 0
	for _, node := range parseNodes(content) {
		m, ok := parseMoveNode(node, info.Width, info.Height)
		if !ok {
			continue
		}
		moveCount++
		if m.Pass {
			continue
		}
		board.Place(m.Point, m.Color)
	}

	return board.Stones(), moveCount
}

// parseProperties extracts KEY[value] pairs from the root node of an SGF string.
func parseProperties(content string) map[string]string {
	props := make(map[string]string)

	// Find the root node: starts after "(;"
	start := strings.Index(content, "(;")
	if start == -1 {
		return props
	}
	start += 2

	// Root node ends at the next ";" or ")" outside a value
	end := len(content)
	for i := start; i < len(content); i++ {
		if content[i] == '[' {
			i = skipValue(content, i)
			continue
		}
		if content[i] == ';' || content[i] == ')' {
			end = i
			break
		}
	}

	extractProps(content[start:end], props)
	return props
}

// skipValue returns the index of the ']' closing the value opened at i.
func skipValue(content string, i int) int {
	i++
	for i < len(content) && content[i] != ']' {
		if content[i] == '\\' && i+1 < len(content) {
			i++ // skip escaped char
		}
		i++
	}
	return i
}

// extractProps parses KEY[value] pairs from a node string into the map.
func extractProps(node string, props map[string]string) {
	i := 0
	for i < len(node) {
		for i < len(node) && (node[i] == ' ' || node[i] == '\n' || node[i] == '\r' || node[i] == '\t') {
			i++
		}
		if i >= len(node) {
			break
		}

		// Property identifier (uppercase letters)
		keyStart := i
		for i < len(node) && node[i] >= 'A' && node[i] <= 'Z' {
			i++
		}
		if i == keyStart {
			i++
			continue
		}
		key := node[keyStart:i]

		// All values, e.g. AB[aa][bb][cc]; the last one wins
		for i < len(node) && node[i] == '[' {
			end := skipValue(node, i)
			props[key] = node[i+1 : end]
			i = end + 1
		}
	}
}

// countMoves counts the move nodes (;B[...] or ;W[...]).
func countMoves(content string) int {
	count := 0
	for _, node := range parseNodes(content) {
		n := strings.TrimSpace(node)
		if len(n) > 2 && (n[1] == 'B' || n[1] == 'W') && n[2] == '[' {
			count++
		}
	}
	return count
}

// parseNodes returns the main-line node strings after the root node. The
// main line follows the first variation at every branch, so it ends at the
// first ')'.
func parseNodes(content string) []string {
	var nodes []string

	start := strings.Index(content, "(;")
	if start == -1 {
		return nodes
	}

	// Skip the root node
	i := start + 2
	for i < len(content) && content[i] != ';' && content[i] != '(' && content[i] != ')' {
		if content[i] == '[' {
			i = skipValue(content, i)
		}
		i++
	}

	for i < len(content) {
		switch content[i] {
		case ')':
			return nodes
		case ';':
			nodeStart := i
			i++
			for i < len(content) && content[i] != ';' && content[i] != '(' && content[i] != ')' {
				if content[i] == '[' {
					i = skipValue(content, i)
				}
				i++
			}
			nodes = append(nodes, content[nodeStart:min(i, len(content))])
		default:
			i++
		}
	}

	return nodes
}

// parseMoveNode extracts a move from a node like ";B[pd]". SGF letters count
// from the top-left corner, so the row is flipped into board coordinates.
// An empty value, or "tt" on boards up to 19x19, is a pass.
func parseMoveNode(node string, width, height int) (types.Move, bool) {
	node = strings.TrimSpace(node)
	if len(node) < 2 || node[0] != ';' {
		return types.Move{}, false
	}

	var color types.Color
	switch node[1] {
	case 'B':
		color = types.Black
	case 'W':
		color = types.White
	default:
		return types.Move{}, false
	}

	bracketStart := strings.Index(node, "[")
	bracketEnd := strings.Index(node, "]")
	if bracketStart != 2 || bracketEnd == -1 || bracketEnd <= bracketStart {
		return types.Move{}, false
	}

	coord := node[bracketStart+1 : bracketEnd]
	if coord == "" || (coord == "tt" && width <= 19 && height <= 19) {
		return types.Move{Color: color, Pass: true}, true
	}

	x, y, ok := fromSGFCoord(coord, height)
	if !ok || x >= width {
		return types.Move{}, false
	}
	return types.Move{Point: types.BoardPoint{X: x, Y: y}, Color: color}, true
}

// fromSGFCoord converts an SGF letter pair to board coordinates.
func fromSGFCoord(coord string, height int) (int, int, bool) {
	if len(coord) != 2 {
		return 0, 0, false
	}
	x := sgfIndex(coord[0])
	row := sgfIndex(coord[1])
	if x < 0 || row < 0 || row >= height {
		return 0, 0, false
	}
	return x, height - 1 - row, true
}

// sgfIndex maps a-z to 0-25 and A-Z to 26-51.
func sgfIndex(c byte) int {
	switch {
	case c >= 'a' && c <= 'z':
		return int(c - 'a')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 26
	default:
		return -1
	}
}

// applySetup applies AB[]/AW[] setup properties.
func applySetup(content string, board Board, width, height int) {
	i := strings.Index(content, "(;")
	if i == -1 {
		return
	}

	for i < len(content) {
		if content[i] == '[' {
			i = skipValue(content, i) + 1
			continue
		}
		if content[i] != 'A' || i+1 >= len(content) || (content[i+1] != 'B' && content[i+1] != 'W') {
			i++
			continue
		}
		color := types.Black
		if content[i+1] == 'W' {
			color = types.White
		}
		i += 2

		for i < len(content) && content[i] == '[' {
			end := skipValue(content, i)
			if x, y, ok := fromSGFCoord(content[i+1:min(end, len(content))], height); ok && x < width {
				board.Set(types.BoardPoint{X: x, Y: y}, color)
			}
			i = end + 1
		}
	}
}
