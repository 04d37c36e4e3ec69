// Package engine defines the interface for KataGo engine connections.
package engine

import "errors"

// ErrClosed is returned when sending to an engine that has been shut down.
var ErrClosed = errors.New("engine is closed")

// Engine is a line-oriented connection to a running engine.
// Commands are fire-and-forget: there is no acknowledgement and no request ID.
// Output lines arrive on Lines in the order the engine wrote them.
type Engine interface {
	// Send writes one command line to the engine.
	Send(line string) error

	// Lines returns the engine output stream. It is closed when the engine exits.
	Lines() <-chan string

	// Err returns the error that ended the output stream, if any.
	Err() error

	// Close shuts down the engine.
	Close() error
}

// GameConfig holds the per-record engine settings for one game.
type GameConfig struct {
	Width                           int     `json:"width" mapstructure:"width"`
	Height                          int     `json:"height" mapstructure:"height"`
	Rule                            int     `json:"rule" mapstructure:"rule"` // index into gtp.Rules
	Komi                            float64 `json:"komi" mapstructure:"komi"`
	PlayoutDoublingAdvantage        float64 `json:"playout_doubling_advantage" mapstructure:"playout_doubling_advantage"`
	AnalysisWideRootNoise           float64 `json:"analysis_wide_root_noise" mapstructure:"analysis_wide_root_noise"`
	HumanSLProfile                  string  `json:"human_sl_profile" mapstructure:"human_sl_profile"`
	HumanSLRootExploreProbWeightful float64 `json:"human_sl_root_explore_prob_weightful" mapstructure:"human_sl_root_explore_prob_weightful"`
}

// DefaultGameConfig returns the settings used for a fresh game.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Width:                           19,
		Height:                          19,
		Rule:                            0, // chinese
		Komi:                            7.0,
		PlayoutDoublingAdvantage:        0,
		AnalysisWideRootNoise:           0.03125,
		HumanSLProfile:                  "rank_9d",
		HumanSLRootExploreProbWeightful: 0,
	}
}
