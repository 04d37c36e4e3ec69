package session

import (
	"fmt"
	"os"
	"strings"

	"katasuji/engine"
	"katasuji/engine/gtp"
	"katasuji/types"
)

// Action is a user request applied on the session loop.
type Action struct {
	name  string
	apply func(s *Session)
}

func (a Action) String() string { return a.name }

// Play places a stone for the side to move.
func Play(p types.BoardPoint) Action {
	return Action{name: "play " + gtp.Encode(p.X, p.Y), apply: func(s *Session) {
		s.playMove(types.Move{Point: p, Color: s.next})
	}}
}

// Pass passes for the side to move.
func Pass() Action {
	return Action{name: "pass", apply: func(s *Session) {
		s.playMove(types.Move{Color: s.next, Pass: true})
	}}
}

// Undo takes back the last move.
func Undo() Action {
	return Action{name: "undo", apply: func(s *Session) {
		if s.cursor > 0 {
			s.cursor--
		}
		s.send(gtp.CmdUndo)
		s.afterMove()
	}}
}

// GenmoveOrForward replays the next move of the bound record if there is
// one at the cursor, and otherwise asks the engine to move.
func GenmoveOrForward() Action {
	return Action{name: "genmove-or-forward", apply: func(s *Session) {
		if s.rec != nil {
			if m, ok := s.rec.MoveAt(s.cursor); ok {
				s.send(gtp.PlayCommand(m))
				s.next = m.Color.Opposite()
				s.cursor++
				s.afterMove()
				return
			}
		}
		s.send(gtp.GenmoveCommand(s.next))
		s.next = s.next.Opposite()
		s.cursor++
		s.afterMove()
	}}
}

// ClearBoard empties the board and rewinds the cursor.
func ClearBoard() Action {
	return Action{name: "clear_board", apply: func(s *Session) {
		s.cursor = 0
		s.send(gtp.CmdClearBoard)
		s.afterMove()
	}}
}

// StartAnalysis requests a quick analysis followed by the full one.
func StartAnalysis() Action {
	return Action{name: "start-analysis", apply: func(s *Session) {
		s.state = types.Running
		if s.pendingClear {
			s.snapshot = types.EmptySnapshot(s.next)
			s.pendingClear = false
		}
		s.requestAnalysis()
		s.publish()
	}}
}

// PauseAnalysis stops the engine and keeps the last snapshot on screen.
func PauseAnalysis() Action {
	return Action{name: "pause-analysis", apply: func(s *Session) {
		s.state = types.Paused
		s.pendingAnalysis = false
		s.send(gtp.CmdStop)
		s.publish()
	}}
}

// StopAnalysis stops the engine and clears the snapshot.
func StopAnalysis() Action {
	return Action{name: "stop-analysis", apply: func(s *Session) {
		s.state = types.Clear
		s.pendingAnalysis = false
		s.send(gtp.CmdStop)
		s.snapshot = types.EmptySnapshot(s.next)
		s.publish()
	}}
}

// RefreshAnalysis re-issues analysis when running and nothing is pending.
func RefreshAnalysis() Action {
	return Action{name: "refresh-analysis", apply: func(s *Session) {
		if s.state == types.Running && !s.pendingAnalysis {
			s.requestAnalysis()
		}
	}}
}

// Raw sends a command typed into the console.
func Raw(command string) Action {
	command = strings.TrimSpace(command)
	return Action{name: "raw", apply: func(s *Session) {
		if command == "" {
			return
		}
		s.console.Sent(command)
		s.send(command)
	}}
}

// ApplyConfig sends cfg to the engine and stores it on the bound record.
func ApplyConfig(cfg engine.GameConfig) Action {
	return Action{name: "apply-config", apply: func(s *Session) {
		s.applyConfig(cfg)
		if s.rec != nil {
			s.rec.SaveConfig(cfg)
		}
		s.send(gtp.CmdShowboard)
		if s.state == types.Running {
			s.requestAnalysis()
		}
		s.publish()
	}}
}

// Open binds rec to the session and loads it into the engine at its saved
// cursor.
func Open(rec Record) Action {
	return Action{name: "open", apply: func(s *Session) {
		s.rec = rec
		s.openRecord()
	}}
}

// playMove sends m and hands the turn over. The next board footer confirms
// or corrects the side to move.
func (s *Session) playMove(m types.Move) {
	s.send(gtp.PlayCommand(m))
	s.next = m.Color.Opposite()
	s.cursor++
	s.afterMove()
}

// afterMove asks for the new board and SGF, then either re-analyses or
// marks the current snapshot stale.
func (s *Session) afterMove() {
	s.send(gtp.CmdShowboard)
	s.send(gtp.CmdPrintSGF)
	if s.state == types.Running {
		s.requestAnalysis()
	} else {
		s.pendingClear = true
		s.snapshot = types.EmptySnapshot(s.next)
	}
	s.publish()
}

func (s *Session) requestAnalysis() {
	s.send(gtp.AnalyzeCommand(gtp.FastAnalysisInterval, s.opts.MaxAnalysisMoves))
	s.send(gtp.AnalyzeCommand(s.opts.AnalysisInterval, s.opts.MaxAnalysisMoves))
	s.pendingAnalysis = true
}

func (s *Session) applyConfig(cfg engine.GameConfig) {
	s.config = cfg
	for _, cmd := range gtp.ConfigCommands(cfg) {
		s.send(cmd)
	}
}

// openRecord replays the bound record into the engine: configuration,
// loadsgf of the stored text, then enough undos to reach the cursor.
func (s *Session) openRecord() {
	sgfText, cursor, cfg := s.rec.Load()
	s.applyConfig(cfg)

	s.state = types.Clear
	s.pendingAnalysis = false
	s.pendingClear = false
	s.snapshot = types.EmptySnapshot(s.next)
	s.sgf = sgfText
	s.cursor = cursor

	if strings.TrimSpace(sgfText) == "" {
		s.cursor = 0
		s.send(gtp.CmdClearBoard)
		s.send(gtp.CmdShowboard)
		s.publish()
		return
	}

	s.removeTempSGF()
	path, err := writeTempSGF(sgfText)
	if err != nil {
		s.log.Warnw("failed to write record for loadsgf", "error", err)
		s.console.Received(fmt.Sprintf("! failed to load record: %v", err))
		s.send(gtp.CmdClearBoard)
		s.send(gtp.CmdShowboard)
		s.cursor = 0
		s.publish()
		return
	}
	s.tempSGF = path
	s.send(gtp.LoadSGFCommand(path))

	count := s.rec.MoveCount()
	if s.cursor > count {
		s.cursor = count
	}
	for i := s.cursor; i < count; i++ {
		s.send(gtp.CmdUndo)
	}
	s.send(gtp.CmdShowboard)
	s.publish()
}

func writeTempSGF(text string) (string, error) {
	f, err := os.CreateTemp("", "katasuji-*.sgf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return f.Name(), nil
}

func (s *Session) removeTempSGF() {
	if s.tempSGF == "" {
		return
	}
	if err := os.Remove(s.tempSGF); err != nil && !os.IsNotExist(err) {
		s.log.Debugw("failed to remove temp sgf", "path", s.tempSGF, "error", err)
	}
	s.tempSGF = ""
}
