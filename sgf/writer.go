// Package sgf reads and writes SGF FF[4] game records.
package sgf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"katasuji/engine"
	"katasuji/engine/gtp"
	"katasuji/types"
)

// Header is the root node of a written record.
type Header struct {
	Width       int
	Height      int
	Komi        float64
	Rules       string
	PlayerBlack string
	PlayerWhite string
	Date        string
}

// HeaderFor builds the root node for a game played with cfg.
func HeaderFor(cfg engine.GameConfig, now time.Time) Header {
	return Header{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Komi:        cfg.Komi,
		Rules:       gtp.RuleName(cfg.Rule),
		PlayerBlack: "Black",
		PlayerWhite: "White",
		Date:        now.Format("2006-01-02"),
	}
}

// NewGameSGF returns the record text for a game with no moves yet.
func NewGameSGF(cfg engine.GameConfig) string {
	return Encode(HeaderFor(cfg, time.Now()), nil)
}

// sgfCoord converts board coordinates to an SGF letter pair. SGF rows count
// from the top, so (0, height-1) -> "aa".
func sgfCoord(x, y, height int) string {
	return string(sgfLetter(x)) + string(sgfLetter(height-1-y))
}

func sgfLetter(i int) byte {
	if i < 26 {
		return byte('a' + i)
	}
	return byte('A' + i - 26)
}

// moveNode renders one move, ";B[pd]" or ";W[]" for a pass.
func moveNode(m types.Move, height int) string {
	color := "B"
	if m.Color == types.White {
		color = "W"
	}
	if m.Pass {
		return ";" + color + "[]"
	}
	return fmt.Sprintf(";%s[%s]", color, sgfCoord(m.Point.X, m.Point.Y, height))
}

// escape protects ']' and '\' inside a property value.
func escape(v string) string {
	return strings.NewReplacer(`\`, `\\`, `]`, `\]`).Replace(v)
}

// Encode writes a complete record.
func Encode(h Header, moves []types.Move) string {
	var b strings.Builder

	b.WriteString("(;FF[4]GM[1]CA[UTF-8]AP[katasuji:1.0]")
	if h.Width == h.Height {
		fmt.Fprintf(&b, "SZ[%d]", h.Width)
	} else {
		fmt.Fprintf(&b, "SZ[%d:%d]", h.Width, h.Height)
	}
	b.WriteString("KM[" + strconv.FormatFloat(h.Komi, 'f', -1, 64) + "]")
	if h.Rules != "" {
		b.WriteString("RU[" + escape(h.Rules) + "]")
	}
	b.WriteString("PB[" + escape(h.PlayerBlack) + "]")
	b.WriteString("PW[" + escape(h.PlayerWhite) + "]")
	if h.Date != "" {
		b.WriteString("DT[" + escape(h.Date) + "]")
	}

	for _, m := range moves {
		b.WriteString(moveNode(m, h.Height))
	}

	b.WriteString(")")
	return b.String()
}
