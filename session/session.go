// Package session keeps the game state in step with a KataGo engine.
//
// The engine answers commands without request IDs, so its output is routed
// by shape: board dumps rebuild the stones, analysis lines replace the
// analysis snapshot, SGF dumps are saved to the bound record, and everything
// else goes to the console. A single loop goroutine (Run) owns all of this
// state. User actions are queued to that loop and the result is published
// as an immutable View.
package session

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"katasuji/engine"
	"katasuji/engine/gtp"
	"katasuji/types"
)

// Options tunes a session.
type Options struct {
	AnalysisInterval int // centiseconds
	MaxAnalysisMoves int
	StallTimeout     time.Duration // zero disables the watchdog
	MaxMessageLines  int
	MaxMessageChars  int
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		AnalysisInterval: 50,
		MaxAnalysisMoves: 50,
		StallTimeout:     30 * time.Second,
		MaxMessageLines:  1000,
		MaxMessageChars:  5000,
	}
}

// Record is the game record a session reads history from and saves to.
type Record interface {
	Load() (sgf string, cursor int, cfg engine.GameConfig)
	Save(sgf string, cursor int)
	SaveConfig(cfg engine.GameConfig)
	MoveCount() int
	MoveAt(i int) (types.Move, bool)
}

// View is the published session state. A View is never modified after
// publication.
type View struct {
	Stones     types.StoneSet
	Dimensions types.BoardDimensions
	NextPlayer types.Color
	Analysis   types.AnalysisSnapshot
	State      types.AnalysisState
	Cursor     int
	SGF        string
	Config     engine.GameConfig
	Stalled    bool
}

// Session drives one engine for one board.
type Session struct {
	eng     engine.Engine
	opts    Options
	log     *zap.SugaredLogger
	console *Console

	actions chan Action
	done    chan struct{}
	updates chan struct{}
	view    atomic.Pointer[View]
	now     func() time.Time

	// Owned by the loop goroutine.
	rec             Record
	state           types.AnalysisState
	dumping         bool
	dumpLines       []string
	pendingAnalysis bool
	pendingClear    bool
	stones          types.StoneSet
	dims            types.BoardDimensions
	next            types.Color
	snapshot        types.AnalysisSnapshot
	cursor          int
	sgf             string
	config          engine.GameConfig
	lastSent        time.Time
	awaiting        bool
	stalled         bool
	tempSGF         string
}

// New creates a session for eng. Call Run to start processing.
func New(eng engine.Engine, opts Options, log *zap.SugaredLogger) *Session {
	s := &Session{
		eng:      eng,
		opts:     opts,
		log:      log,
		console:  NewConsole(opts.MaxMessageLines, opts.MaxMessageChars),
		actions:  make(chan Action, 64),
		done:     make(chan struct{}),
		updates:  make(chan struct{}, 1),
		now:      time.Now,
		stones:   types.NewStoneSet(),
		snapshot: types.EmptySnapshot(types.Black),
		config:   engine.DefaultGameConfig(),
	}
	s.publish()
	return s
}

// Console returns the session's message log.
func (s *Session) Console() *Console {
	return s.console
}

// View returns the latest published state.
func (s *Session) View() *View {
	return s.view.Load()
}

// Updates signals after each publication. Signals are coalesced.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// Submit queues an action for the loop. It does nothing once Run has
// returned.
func (s *Session) Submit(a Action) {
	select {
	case s.actions <- a:
	case <-s.done:
	}
}

// Flush waits until every action submitted before it has been applied.
func (s *Session) Flush(ctx context.Context) error {
	applied := make(chan struct{})
	s.Submit(Action{name: "flush", apply: func(*Session) { close(applied) }})
	select {
	case <-applied:
		return nil
	case <-s.done:
		return engine.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes engine output and queued actions until ctx is cancelled or
// the engine output ends.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.removeTempSGF()

	var tick <-chan time.Time
	if s.opts.StallTimeout > 0 {
		ticker := time.NewTicker(s.opts.StallTimeout / 4)
		defer ticker.Stop()
		tick = ticker.C
	}

	lines := s.eng.Lines()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a := <-s.actions:
			s.log.Debugw("action", "name", a.name)
			a.apply(s)
		case line, ok := <-lines:
			if !ok {
				err := s.eng.Err()
				s.log.Infow("engine output closed", "error", err)
				return err
			}
			s.handleLine(line)
		case <-tick:
			s.checkStall()
		}
	}
}

// send writes a command to the engine. Failures are logged and shown in the
// console; the session carries on.
func (s *Session) send(cmd string) {
	if err := s.eng.Send(cmd); err != nil {
		s.log.Warnw("failed to send command", "command", cmd, "error", err)
		s.console.Received(fmt.Sprintf("! failed to send %q: %v", cmd, err))
		return
	}
	if !s.awaiting {
		s.lastSent = s.now()
		s.awaiting = true
	}
}

func (s *Session) handleLine(line string) {
	s.awaiting = false
	if s.stalled {
		s.stalled = false
		s.log.Infow("engine responding again")
		defer s.publish()
	}

	if line != "" {
		s.console.Received(line)
	}

	l := gtp.Classify(line)
	if s.dumping {
		switch l.Kind {
		case gtp.KindBoardFooter:
			s.finishDump(l.NextPlayer)
		case gtp.KindBoardHeaderStart:
			s.dumpLines = s.dumpLines[:0]
		case gtp.KindAnalysisBatch:
			s.analysisBatchReceived(line)
		case gtp.KindSgfDump:
			s.sgfReceived(line)
		default:
			s.dumpLines = append(s.dumpLines, line)
		}
		return
	}

	switch l.Kind {
	case gtp.KindBoardHeaderStart:
		s.dumping = true
		s.dumpLines = s.dumpLines[:0]
	case gtp.KindBoardFooter:
		// A footer without a header carries only the side to move.
		s.next = l.NextPlayer
		s.publish()
	case gtp.KindAnalysisBatch:
		s.analysisBatchReceived(line)
	case gtp.KindSgfDump:
		s.sgfReceived(line)
	}
}

func (s *Session) sgfReceived(line string) {
	s.sgf = gtp.SGFText(line)
	if s.rec != nil {
		s.rec.Save(s.sgf, s.cursor)
	}
	s.publish()
}

func (s *Session) finishDump(next types.Color) {
	s.stones, s.dims = gtp.ReconstructBoard(s.dumpLines)
	s.next = next
	s.dumping = false
	s.dumpLines = s.dumpLines[:0]
	s.publish()
}

// analysisBatchReceived applies a batch only while analysis is running.
// Batches composed before a stop can still arrive and are dropped.
func (s *Session) analysisBatchReceived(line string) {
	if s.state != types.Running {
		s.log.Debugw("dropping late analysis batch", "state", s.state)
		return
	}
	s.pendingAnalysis = false
	s.snapshot = gtp.Aggregate(line, s.dims, s.next)
	s.publish()
}

func (s *Session) checkStall() {
	if !s.awaiting || s.stalled {
		return
	}
	waited := s.now().Sub(s.lastSent)
	if waited < s.opts.StallTimeout {
		return
	}
	s.stalled = true
	s.log.Warnw("engine has not responded", "waited", waited.String())
	s.console.Received(fmt.Sprintf("! engine has not responded for %s", waited.Round(time.Second)))
	s.publish()
}

func (s *Session) publish() {
	s.view.Store(&View{
		Stones:     s.stones.Clone(),
		Dimensions: s.dims,
		NextPlayer: s.next,
		Analysis:   s.snapshot,
		State:      s.state,
		Cursor:     s.cursor,
		SGF:        s.sgf,
		Config:     s.config,
		Stalled:    s.stalled,
	})
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
