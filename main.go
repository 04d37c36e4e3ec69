// katasuji is a terminal application to analyse Go games with KataGo.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"katasuji/config"
	"katasuji/engine"
	"katasuji/engine/gtp"
	"katasuji/record"
	"katasuji/session"
	"katasuji/types"
	"katasuji/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Console lines arrive without a board change, so the console is polled.
const consolePoll = 100 * time.Millisecond

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.GoBoardUI
var gamePanel *ui.AnalysisPanel
var gameConsole *ui.ConsoleUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var browser *ui.RecordBrowserUI
var cfg *config.Config
var store record.Store
var bridge *record.Bridge
var sess *session.Session
var logger *zap.SugaredLogger
var focusMode bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func sessionOptions(c *config.Config) session.Options {
	return session.Options{
		AnalysisInterval: c.Analysis.Interval,
		MaxAnalysisMoves: c.Analysis.MaxMoves,
		StallTimeout:     c.Engine.StallTimeout,
		MaxMessageLines:  c.Console.MaxMessageLines,
		MaxMessageChars:  c.Console.MaxMessageCharacters,
	}
}

func processConfig(c *config.Config) gtp.ProcessConfig {
	return gtp.ProcessConfig{
		Path:       c.Engine.Path,
		Model:      c.Engine.Model,
		HumanModel: c.Engine.HumanModel,
		Config:     c.Engine.Config,
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	var err error
	logger, err = newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	storeCtx, storeCancel := context.WithTimeout(ctx, storeTimeout)
	store, err = openStore(storeCtx, logger.Named("store"))
	storeCancel()
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer store.Close()
	defer waitForRecord()

	registry := engine.NewRegistry()
	defer func() {
		if err := registry.CloseAll(); err != nil {
			logger.Warnw("failed to stop engine", "error", err)
		}
	}()
	eng, err := registry.Acquire(cfg.Engine.Model, func() (engine.Engine, error) {
		p, err := gtp.Start(ctx, processConfig(cfg), logger.Named("engine"))
		if err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return err
	}
	logger.Infow("starting session", "model", cfg.Engine.Model, "backend", cfg.Store.Backend)

	sess = session.New(eng, sessionOptions(cfg), logger.Named("session"))
	buildUI()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := sess.Run(gctx)
		// Queued, so this also works before the application has started.
		app.QueueUpdate(app.Stop)
		if gctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errors.New("output closed")
		}
		return fmt.Errorf("engine stopped: %w", err)
	})
	g.Go(func() error {
		watchSession(gctx)
		return nil
	})

	runErr := app.SetRoot(rootPage, true).Run()
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	return runErr
}

// watchSession redraws the game view whenever the session publishes and
// whenever new console lines arrive.
func watchSession(ctx context.Context) {
	ticker := time.NewTicker(consolePoll)
	defer ticker.Stop()

	var seen uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Updates():
			app.QueueUpdateDraw(refreshGame)
		case <-ticker.C:
			if seq := sess.Console().LastSeq(); seq != seen {
				seen = seq
				app.QueueUpdateDraw(func() {
					gameConsole.Refresh(sess.Console())
				})
			}
		}
	}
}

func refreshGame() {
	v := sess.View()
	gameBoard.SetView(v)
	gamePanel.SetView(v, gameBoard.SelectedTile())
	gameConsole.Refresh(sess.Console())
	gameHint.SetText(ui.StatusText(v, focusMode))
}

func buildUI() {
	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⬡ katasuji ")

	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)

	gameBoard = ui.NewGoBoard(cfg)
	gamePanel = ui.NewAnalysisPanel(cfg)
	gameConsole = ui.NewConsole(
		func(command string) {
			sess.Submit(session.Raw(command))
		},
		func() {
			app.SetFocus(gameBoard.Box)
		},
	)
	gameFrame = ui.CreateGameLayout(gameBoard, gamePanel, gameConsole, gameHint)
	gameBoard.Box.SetInputCapture(gameInput)

	browser = ui.NewRecordBrowser(store)
	browser.OnOpen = openRecord
	browser.OnNew = func() {
		showGameSetup("New Game", "Start Game", cfg.Game, newGame, func() {
			rootPage.SwitchToPage("records")
		})
	}
	browser.OnColors = func() {
		rootPage.SwitchToPage("colors")
	}
	browser.OnQuit = app.Stop

	colorConfig := ui.NewColorConfig(cfg, cfgPath, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("records")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("records")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	rootPage.AddPage("records", browser.Flex(), true, true)
	rootPage.AddPage("game", gameFrame, true, false)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)
}

func gameInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		moveSelection(0, -1)
	case tcell.KeyDown:
		moveSelection(0, 1)
	case tcell.KeyLeft:
		moveSelection(-1, 0)
	case tcell.KeyRight:
		moveSelection(1, 0)
	case tcell.KeyEnter:
		if p := gameBoard.SelectedTile(); p != nil {
			sess.Submit(session.Play(*p))
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			moveSelection(-1, 0)
		case 'j':
			moveSelection(0, 1)
		case 'k':
			moveSelection(0, -1)
		case 'l':
			moveSelection(1, 0)
		case 'p':
			sess.Submit(session.Pass())
		case 'u':
			sess.Submit(session.Undo())
		case 'n':
			sess.Submit(session.GenmoveOrForward())
		case 'a':
			if sess.View().State == types.Running {
				sess.Submit(session.PauseAnalysis())
			} else {
				sess.Submit(session.StartAnalysis())
			}
		case 's':
			sess.Submit(session.StopAnalysis())
		case 'r':
			sess.Submit(session.RefreshAnalysis())
		case 'o':
			gameBoard.ToggleOwnership()
		case 'c':
			sess.Submit(session.ClearBoard())
		case 'g':
			showGameSetup("Game Settings", "Apply", sess.View().Config, func(c engine.GameConfig) {
				sess.Submit(session.ApplyConfig(c))
				showGame()
			}, showGame)
		case ':':
			app.SetFocus(gameConsole.Input())
		case 'f':
			focusMode = !focusMode
			if focusMode {
				ui.BuildFocusLayout(gameFrame, gameBoard)
			} else {
				ui.RebuildNormalLayout(gameFrame, gameBoard, gamePanel, gameConsole, gameHint)
			}
			refreshGame()
		case 'q':
			if gameBoard.SelectedTile() != nil {
				gameBoard.ResetSelection()
				refreshGame()
			} else {
				showRecords()
			}
		default:
			return event
		}
		return nil
	}
	return event
}

func moveSelection(h, v int) {
	gameBoard.MoveSelection(h, v)
	gamePanel.SetView(sess.View(), gameBoard.SelectedTile())
}

// showGameSetup opens the settings form over the current page.
func showGameSetup(title, submitLabel string, initial engine.GameConfig, onSubmit func(engine.GameConfig), onCancel func()) {
	setup := ui.NewGameSetup(title, submitLabel, initial, func(c engine.GameConfig) {
		rootPage.RemovePage("setup")
		onSubmit(c)
	}, func() {
		rootPage.RemovePage("setup")
		onCancel()
	})
	rootPage.AddAndSwitchToPage("setup", ui.CreateCenteredForm(setup.Form(), 60), true)
}

func newGame(c engine.GameConfig) {
	rec := record.New("", c)
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := store.Save(ctx, rec); err != nil {
		logger.Errorw("failed to create record", "error", err)
		showError(fmt.Sprintf("Failed to create game:\n%s", err))
		return
	}
	openRecord(rec)
}

func openRecord(rec *record.GameRecord) {
	logger.Infow("opening record", "id", rec.ID, "name", rec.Name)
	bridge = record.NewBridge(store, rec, logger.Named("record"))
	sess.Submit(session.Open(bridge))
	gameBoard.ResetSelection()
	showGame()
}

func showGame() {
	rootPage.SwitchToPage("game")
	app.SetFocus(gameBoard.Box)
}

// showRecords leaves the game. Analysis is stopped so the engine is idle
// while browsing.
func showRecords() {
	sess.Submit(session.StopAnalysis())
	waitForRecord()
	browser.Refresh()
	rootPage.SwitchToPage("records")
}

// waitForRecord flushes the open record's pending writes.
func waitForRecord() {
	if bridge != nil {
		bridge.Wait()
	}
}

func showError(text string) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
		})
	rootPage.AddPage("error", modal, true, true)
}
