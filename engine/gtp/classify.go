package gtp

import (
	"strings"

	"katasuji/types"
)

// Kind is the category of one engine output line.
type Kind int

const (
	KindPlain            Kind = iota // anything else, console only
	KindBoardHeaderStart             // "= MoveNum ..." opening a board dump
	KindBoardBodyRow                 // a row between header and footer
	KindBoardFooter                  // "Next player: ..." closing a board dump
	KindAnalysisBatch                // one kata-analyze line of info entries
	KindSgfDump                      // printsgf response
)

func (k Kind) String() string {
	switch k {
	case KindBoardHeaderStart:
		return "board-header"
	case KindBoardBodyRow:
		return "board-row"
	case KindBoardFooter:
		return "board-footer"
	case KindAnalysisBatch:
		return "analysis"
	case KindSgfDump:
		return "sgf"
	default:
		return "plain"
	}
}

const (
	boardHeaderPrefix = "= MoveNum"
	footerPrefix      = "Next player"
	footerBlack       = "Next player: Black"
	sgfDumpPrefix     = "= (;FF[4]GM[1]"
	analysisToken     = "info"
	successPrefix     = "= "
)

// Line is a classified engine output line.
type Line struct {
	Kind Kind
	Text string

	// NextPlayer is set for KindBoardFooter.
	NextPlayer types.Color
}

// Classify tags a raw engine line by its shape. Responses carry no request
// ID, so the shape is all there is to go on.
//
// KindBoardBodyRow is never returned here: a board row only means something
// between a header and a footer, which is the caller's state.
func Classify(line string) Line {
	switch {
	case strings.HasPrefix(line, boardHeaderPrefix):
		return Line{Kind: KindBoardHeaderStart, Text: line}
	case strings.HasPrefix(line, footerPrefix):
		next := types.White
		if strings.HasPrefix(line, footerBlack) {
			next = types.Black
		}
		return Line{Kind: KindBoardFooter, Text: line, NextPlayer: next}
	case strings.HasPrefix(line, sgfDumpPrefix):
		return Line{Kind: KindSgfDump, Text: line}
	case IsAnalysisLine(line):
		return Line{Kind: KindAnalysisBatch, Text: line}
	default:
		return Line{Kind: KindPlain, Text: line}
	}
}

// IsAnalysisLine reports whether line starts with "info", optionally after
// a "= " success marker.
func IsAnalysisLine(line string) bool {
	return strings.HasPrefix(strings.TrimPrefix(line, successPrefix), analysisToken)
}

// SGFText strips the success marker from an SGF dump line.
func SGFText(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, successPrefix))
}
