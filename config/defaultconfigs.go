package config

import (
	"time"

	"katasuji/engine"
)

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawStoneBackground:      false,
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		FullWidthLetters:         false,
		UseGridLines:             true,
		Colors: ConfigColors{
			BoardColor:        180,
			BoardColorAlt:     180,
			BlackColor:        232,
			BlackColorAlt:     232,
			WhiteColor:        255,
			WhiteColorAlt:     255,
			LineColor:         94,
			CursorColorFG:     2,
			CursorColorBG:     4,
			LastPlayedColorBG: 2,
			CandidateColor:    33,
			BestMoveColor:     45,
		},
		Symbols: ConfigSymbols{
			BlackStone:  '●',
			WhiteStone:  '●',
			BoardSquare: '┼',
			Cursor:      '┼',
			LastPlayed:  '┼',
			Candidate:   '◆',
		},
	}

	DefaultConfig = Config{
		Engine: EngineConfig{
			Path:         "katago",
			StallTimeout: 30 * time.Second,
		},
		Game: engine.DefaultGameConfig(),
		Analysis: AnalysisConfig{
			Interval:         50,
			MaxMoves:         50,
			HiddenVisitRatio: 0.03125,
			Information:      InformationAll,
		},
		Console: ConsoleConfig{
			MaxMessageLines:      1000,
			MaxMessageCharacters: 5000,
		},
		Store: StoreConfig{
			Backend: BackendBadger,
		},
		Log: LogConfig{
			Level: "info",
		},
		Theme: DefaultTheme,
	}
}
