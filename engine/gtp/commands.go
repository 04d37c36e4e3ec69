package gtp

import (
	"fmt"
	"strconv"

	"katasuji/engine"
	"katasuji/types"
)

// Fixed commands.
const (
	CmdShowboard  = "showboard"
	CmdPrintSGF   = "printsgf"
	CmdUndo       = "undo"
	CmdClearBoard = "clear_board"
	CmdStop       = "stop"
	CmdQuit       = "quit"
)

// FastAnalysisInterval is the interval, in centiseconds, of the cheap
// analyze command sent before the full one.
const FastAnalysisInterval = 10

// Rules lists the rule sets selectable by index.
var Rules = []string{"chinese", "japanese", "korean", "aga", "bga", "new-zealand"}

// RuleName returns the rule set at index i. It panics when i is out of
// range, which is a caller bug.
func RuleName(i int) string {
	if i < 0 || i >= len(Rules) {
		panic(fmt.Sprintf("gtp: rule index %d out of range", i))
	}
	return Rules[i]
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ConfigCommands returns the commands that apply cfg to the engine, in the
// order they must be sent.
func ConfigCommands(cfg engine.GameConfig) []string {
	return []string{
		fmt.Sprintf("rectangular_boardsize %d %d", cfg.Width, cfg.Height),
		"kata-set-rules " + RuleName(cfg.Rule),
		"komi " + formatFloat(cfg.Komi),
		"kata-set-rule friendlyPassOk false",
		"kata-set-param playoutDoublingAdvantage " + formatFloat(cfg.PlayoutDoublingAdvantage),
		"kata-set-param analysisWideRootNoise " + formatFloat(cfg.AnalysisWideRootNoise),
		"kata-set-param humanSLProfile " + cfg.HumanSLProfile,
		"kata-set-param humanSLRootExploreProbWeightful " + formatFloat(cfg.HumanSLRootExploreProbWeightful),
	}
}

// AnalyzeCommand builds a kata-analyze request with root info and ownership.
func AnalyzeCommand(interval, maxMoves int) string {
	return fmt.Sprintf("kata-analyze interval %d maxmoves %d rootInfo true ownership true ownershipStdev true", interval, maxMoves)
}

// PlayCommand builds "play <b|w> <vertex|pass>".
func PlayCommand(m types.Move) string {
	return fmt.Sprintf("play %s %s", m.Color.GTP(), EncodeMove(m))
}

// GenmoveCommand builds "genmove <b|w>".
func GenmoveCommand(c types.Color) string {
	return "genmove " + c.GTP()
}

// LoadSGFCommand builds "loadsgf <path>".
func LoadSGFCommand(path string) string {
	return "loadsgf " + path
}
