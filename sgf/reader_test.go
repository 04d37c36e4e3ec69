package sgf

import (
	"testing"

	"katasuji/types"
)

const testSGF = `(;GM[1]FF[4]CA[UTF-8]AP[katasuji:1.0]SZ[9]KM[6.5]RU[japanese]PB[Player]PW[KataGo]DT[2026-01-15]RE[B+3.5]
;B[ee];W[cc];B[gg];W[cg];B[gc])`

func TestParseInfo(t *testing.T) {
	info := ParseInfo(testSGF)

	if info.Width != 9 || info.Height != 9 {
		t.Errorf("size = %dx%d, want 9x9", info.Width, info.Height)
	}
	if info.Komi != 6.5 {
		t.Errorf("Komi = %f, want 6.5", info.Komi)
	}
	if info.Rules != "japanese" {
		t.Errorf("Rules = %q, want %q", info.Rules, "japanese")
	}
	if info.PlayerBlack != "Player" {
		t.Errorf("PlayerBlack = %q, want %q", info.PlayerBlack, "Player")
	}
	if info.PlayerWhite != "KataGo" {
		t.Errorf("PlayerWhite = %q, want %q", info.PlayerWhite, "KataGo")
	}
	if info.Date != "2026-01-15" {
		t.Errorf("Date = %q, want %q", info.Date, "2026-01-15")
	}
	if info.Result != "B+3.5" {
		t.Errorf("Result = %q, want %q", info.Result, "B+3.5")
	}
	if info.MoveCount != 5 {
		t.Errorf("MoveCount = %d, want 5", info.MoveCount)
	}
}

func TestParseInfoRectangular(t *testing.T) {
	info := ParseInfo("(;FF[4]GM[1]SZ[13:7]KM[0.5])")
	if info.Width != 13 || info.Height != 7 {
		t.Errorf("size = %dx%d, want 13x7", info.Width, info.Height)
	}
}

func TestParseInfoDefaults(t *testing.T) {
	info := ParseInfo("(;FF[4]GM[1])")
	if info.Width != 19 || info.Height != 19 {
		t.Errorf("size = %dx%d, want 19x19", info.Width, info.Height)
	}
	if info.Komi != 0 {
		t.Errorf("Komi = %f, want 0", info.Komi)
	}

	empty := ParseInfo("")
	if empty.MoveCount != 0 {
		t.Errorf("MoveCount = %d, want 0", empty.MoveCount)
	}
}

func TestParseInfoEscapedValue(t *testing.T) {
	info := ParseInfo(`(;FF[4]GM[1]PB[a\]b;c]SZ[9];B[aa])`)
	if info.PlayerBlack != `a\]b;c` {
		t.Errorf("PlayerBlack = %q", info.PlayerBlack)
	}
	if info.Width != 9 {
		t.Errorf("Width = %d, want 9", info.Width)
	}
	if info.MoveCount != 1 {
		t.Errorf("MoveCount = %d, want 1", info.MoveCount)
	}
}

func TestReplayToEnd(t *testing.T) {
	stones, moveCount := ReplayToEnd(testSGF)

	if moveCount != 5 {
		t.Errorf("moveCount = %d, want 5", moveCount)
	}

	// SGF rows count from the top: "ee" on 9x9 is (4, 4), "cc" is (2, 6)
	checks := []struct {
		p     types.BoardPoint
		color types.Color
	}{
		{types.BoardPoint{X: 4, Y: 4}, types.Black}, // B[ee]
		{types.BoardPoint{X: 2, Y: 6}, types.White}, // W[cc]
		{types.BoardPoint{X: 6, Y: 2}, types.Black}, // B[gg]
		{types.BoardPoint{X: 2, Y: 2}, types.White}, // W[cg]
		{types.BoardPoint{X: 6, Y: 6}, types.Black}, // B[gc]
	}
	for _, c := range checks {
		got, ok := stones.At(c.p)
		if !ok || got != c.color {
			t.Errorf("At(%v) = %v, %v; want %v", c.p, got, ok, c.color)
		}
	}
	if len(stones.Black)+len(stones.White) != 5 {
		t.Errorf("total stones = %d, want 5", len(stones.Black)+len(stones.White))
	}
}

func TestReplayToEndCapture(t *testing.T) {
	// White at aa (top-left corner) is captured by ba and ab.
	stones, moveCount := ReplayToEnd("(;FF[4]GM[1]SZ[5];W[aa];B[ba];W[ee];B[ab])")
	if moveCount != 4 {
		t.Errorf("moveCount = %d, want 4", moveCount)
	}
	if _, ok := stones.At(types.BoardPoint{X: 0, Y: 4}); ok {
		t.Error("corner stone should have been captured")
	}
	if len(stones.White) != 1 {
		t.Errorf("white stones = %d, want 1", len(stones.White))
	}
}

func TestReplayToEndSetupAndPass(t *testing.T) {
	stones, moveCount := ReplayToEnd("(;FF[4]GM[1]SZ[9]AB[aa][bb]AW[ii];B[];W[tt])")
	if moveCount != 2 {
		t.Errorf("moveCount = %d, want 2", moveCount)
	}
	if len(stones.Black) != 2 || len(stones.White) != 1 {
		t.Errorf("stones = %d black, %d white; want 2, 1", len(stones.Black), len(stones.White))
	}
	if c, ok := stones.At(types.BoardPoint{X: 8, Y: 0}); !ok || c != types.White {
		t.Error("AW[ii] should be white at the bottom-right corner")
	}
}

func TestParseMoveNode(t *testing.T) {
	tests := []struct {
		node string
		want types.Move
		ok   bool
	}{
		{";B[pd]", types.Move{Point: types.BoardPoint{X: 15, Y: 15}, Color: types.Black}, true},
		{";W[dp]", types.Move{Point: types.BoardPoint{X: 3, Y: 3}, Color: types.White}, true},
		{";B[]", types.Move{Color: types.Black, Pass: true}, true},
		{";W[tt]", types.Move{Color: types.White, Pass: true}, true},
		{";C[comment]", types.Move{}, false},
		{";B[z]", types.Move{}, false},
		{"B[pd]", types.Move{}, false},
	}
	for _, tt := range tests {
		got, ok := parseMoveNode(tt.node, 19, 19)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseMoveNode(%q) = %+v, %v; want %+v, %v", tt.node, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseNodesFollowsMainLine(t *testing.T) {
	nodes := parseNodes("(;FF[4]SZ[9];B[aa](;W[bb];B[cc])(;W[dd]))")
	want := []string{";B[aa]", ";W[bb]", ";B[cc]"}
	if len(nodes) != len(want) {
		t.Fatalf("nodes = %q, want %q", nodes, want)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Errorf("nodes[%d] = %q, want %q", i, nodes[i], want[i])
		}
	}
}
