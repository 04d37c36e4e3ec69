package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"katasuji/engine"
	"katasuji/engine/gtp"
)

// HumanSLProfiles are the profiles offered for the human-like policy.
var HumanSLProfiles = []string{
	"rank_20k", "rank_15k", "rank_10k", "rank_5k", "rank_1k",
	"rank_1d", "rank_3d", "rank_5d", "rank_7d", "rank_9d",
	"preaz_5k", "preaz_1d", "preaz_5d", "preaz_9d",
	"proyear_1800", "proyear_1900", "proyear_2000", "proyear_2023",
}

// GameSetupUI provides a form for the per-game engine settings.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	hint     *tview.TextView
	cfg      engine.GameConfig
	onSubmit func(engine.GameConfig)
	onCancel func()
}

// NewGameSetup creates the settings form. submitLabel names the confirm
// button ("Start Game" or "Apply").
func NewGameSetup(title, submitLabel string, initial engine.GameConfig, onSubmit func(engine.GameConfig), onCancel func()) *GameSetupUI {
	setup := &GameSetupUI{
		cfg:      initial,
		onSubmit: onSubmit,
		onCancel: onCancel,
	}

	form := tview.NewForm()

	form.AddInputField("Width", strconv.Itoa(initial.Width), 4, acceptInt, func(text string) {
		if v, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			setup.cfg.Width = v
		}
	})
	form.AddInputField("Height", strconv.Itoa(initial.Height), 4, acceptInt, func(text string) {
		if v, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			setup.cfg.Height = v
		}
	})

	rule := initial.Rule
	if rule < 0 || rule >= len(gtp.Rules) {
		rule = 0
	}
	form.AddDropDown("Rules", gtp.Rules, rule, func(option string, index int) {
		setup.cfg.Rule = index
	})

	form.AddInputField("Komi", formatKomi(initial.Komi), 8, acceptFloat, floatSetter(&setup.cfg.Komi))
	form.AddInputField("Playout doubling", formatFloat(initial.PlayoutDoublingAdvantage), 8, acceptFloat, floatSetter(&setup.cfg.PlayoutDoublingAdvantage))
	form.AddInputField("Wide root noise", formatFloat(initial.AnalysisWideRootNoise), 8, acceptFloat, floatSetter(&setup.cfg.AnalysisWideRootNoise))

	profile := 0
	for i, p := range HumanSLProfiles {
		if p == initial.HumanSLProfile {
			profile = i
		}
	}
	form.AddDropDown("Human profile", HumanSLProfiles, profile, func(option string, index int) {
		setup.cfg.HumanSLProfile = option
	})
	form.AddInputField("Human weight", formatFloat(initial.HumanSLRootExploreProbWeightful), 8, acceptFloat, floatSetter(&setup.cfg.HumanSLRootExploreProbWeightful))

	form.AddButton(submitLabel, func() {
		if err := validateGameConfig(setup.cfg); err != nil {
			setup.hint.SetText(err.Error())
			return
		}
		onSubmit(setup.cfg)
	})
	form.AddButton("Cancel", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" " + title + " ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)
	form.SetCancelFunc(onCancel)

	setup.hint = tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Enter: confirm  |  Esc: cancel").
		SetTextAlign(tview.AlignCenter)
	setup.hint.SetTextColor(tcell.ColorGray)

	setup.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(setup.hint, 1, 0, false)

	setup.form = form
	return setup
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

func acceptInt(text string, lastChar rune) bool {
	return lastChar >= '0' && lastChar <= '9'
}

func acceptFloat(text string, lastChar rune) bool {
	return (lastChar >= '0' && lastChar <= '9') || lastChar == '.' || lastChar == '-'
}

func floatSetter(dst *float64) func(string) {
	return func(text string) {
		if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			*dst = v
		}
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validateGameConfig(cfg engine.GameConfig) error {
	for _, size := range []int{cfg.Width, cfg.Height} {
		if size < 2 || size > gtp.MaxColumns {
			return fmt.Errorf("board size must be 2-%d", gtp.MaxColumns)
		}
	}
	return nil
}
