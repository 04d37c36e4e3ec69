package gtp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"katasuji/engine"
)

const (
	// Analysis lines carry two full-board arrays and can be long.
	maxLineBytes = 4 * 1024 * 1024
	lineBuffer   = 256
	closeTimeout = 5 * time.Second
)

// ProcessConfig locates the KataGo binary and its files.
type ProcessConfig struct {
	Path       string
	Model      string
	HumanModel string
	Config     string
}

// Args returns the command line arguments for "katago gtp".
func (c ProcessConfig) Args() []string {
	args := []string{"gtp", "-model", c.Model}
	if c.HumanModel != "" {
		args = append(args, "-human-model", c.HumanModel)
	}
	if c.Config != "" {
		args = append(args, "-config", c.Config)
	}
	return args
}

// Process is an engine running as a subprocess and spoken to over
// stdin/stdout. It implements engine.Engine.
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	lines  chan string
	done   chan struct{}
	cancel context.CancelFunc
	log    *zap.SugaredLogger

	mu     sync.Mutex
	closed bool
	err    error
}

var _ engine.Engine = (*Process)(nil)

// Start launches KataGo in GTP mode.
func Start(ctx context.Context, cfg ProcessConfig, log *zap.SugaredLogger) (*Process, error) {
	if cfg.Model == "" {
		return nil, errors.New("no model configured")
	}
	return StartCommand(ctx, cfg.Path, cfg.Args(), log)
}

// StartCommand launches name with args and starts reading its output.
func StartCommand(ctx context.Context, name string, args []string, log *zap.SugaredLogger) (*Process, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.Command(name, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	log.Infow("engine started", "path", name, "pid", cmd.Process.Pid)

	p := &Process{
		cmd:    cmd,
		stdin:  stdin,
		lines:  make(chan string, lineBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
		log:    log,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.readStdout(gctx, stdout) })
	g.Go(func() error { return p.drainStderr(stderr) })

	go func() {
		readErr := g.Wait()
		waitErr := cmd.Wait()
		p.mu.Lock()
		switch {
		case readErr != nil && !errors.Is(readErr, context.Canceled):
			p.err = readErr
		case waitErr != nil && !p.closed:
			p.err = fmt.Errorf("engine exited: %w", waitErr)
		}
		p.mu.Unlock()
		log.Infow("engine stopped", "pid", cmd.Process.Pid, "error", p.Err())
		close(p.lines)
		close(p.done)
	}()

	return p, nil
}

func (p *Process) readStdout(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		p.log.Debugw("recv", "line", line)
		select {
		case p.lines <- line:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read engine output: %w", err)
	}
	return nil
}

func (p *Process) drainStderr(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		p.log.Debugw("stderr", "line", scanner.Text())
	}
	// stderr is diagnostics only; a read failure must not end the session.
	return nil
}

// Send writes one command line. Writes are serialized so that concurrent
// senders never interleave within a line.
func (p *Process) Send(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return engine.ErrClosed
	}
	p.log.Debugw("send", "line", line)
	if _, err := fmt.Fprintf(p.stdin, "%s\n", line); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

// Lines returns the engine output stream.
func (p *Process) Lines() <-chan string {
	return p.lines
}

// Err returns the error that ended the output stream, if any.
func (p *Process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Done is closed once the process has exited and its output is drained.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Close asks the engine to quit and waits for it, killing it if it does
// not exit in time.
func (p *Process) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	_, _ = fmt.Fprintf(p.stdin, "%s\n", CmdQuit)
	p.closed = true
	closeErr := p.stdin.Close()
	p.mu.Unlock()

	// Unblock the reader if nobody is consuming Lines any more.
	p.cancel()

	select {
	case <-p.done:
	case <-time.After(closeTimeout):
		p.log.Warnw("engine did not quit, killing", "pid", p.cmd.Process.Pid)
		_ = p.cmd.Process.Kill()
		<-p.done
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close stdin: %w", closeErr)
	}
	return nil
}
