package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"katasuji/engine"
	"katasuji/engine/gtp"
)

var (
	cfgFile   = "katasuji/config.json"
	storeDir  = "katasuji/records"
	logFile   = "katasuji/katasuji.log"
	envPrefix = "KATASUJI"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `json:"board" mapstructure:"board"`
	BoardColorAlt     int `json:"board_alt" mapstructure:"board_alt"`
	BlackColor        int `json:"black" mapstructure:"black"`
	BlackColorAlt     int `json:"black_alt" mapstructure:"black_alt"`
	WhiteColor        int `json:"white" mapstructure:"white"`
	WhiteColorAlt     int `json:"white_alt" mapstructure:"white_alt"`
	LineColor         int `json:"line" mapstructure:"line"`
	CursorColorFG     int `json:"cursor_fg" mapstructure:"cursor_fg"`
	CursorColorBG     int `json:"cursor_bg" mapstructure:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg" mapstructure:"last_played_bg"`
	CandidateColor    int `json:"candidate" mapstructure:"candidate"`
	BestMoveColor     int `json:"best_move" mapstructure:"best_move"`
}

type ConfigSymbols struct {
	BlackStone  rune `json:"black" mapstructure:"black"`
	WhiteStone  rune `json:"white" mapstructure:"white"`
	BoardSquare rune `json:"board" mapstructure:"board"`
	Cursor      rune `json:"cursor" mapstructure:"cursor"`
	LastPlayed  rune `json:"last_played" mapstructure:"last_played"`
	Candidate   rune `json:"candidate" mapstructure:"candidate"`
}

type Theme struct {
	DrawStoneBackground      bool          `json:"draw_stone_bg" mapstructure:"draw_stone_bg"`
	DrawCursorBackground     bool          `json:"draw_cursor_bg" mapstructure:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg" mapstructure:"draw_last_played_bg"`
	FullWidthLetters         bool          `json:"fullwidth_letters" mapstructure:"fullwidth_letters"`
	UseGridLines             bool          `json:"use_grid_lines" mapstructure:"use_grid_lines"`
	Colors                   ConfigColors  `json:"colors" mapstructure:"colors"`
	Symbols                  ConfigSymbols `json:"symbols" mapstructure:"symbols"`
}

// EngineConfig locates the KataGo binary and its model files.
type EngineConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	Model        string        `json:"model" mapstructure:"model"`
	HumanModel   string        `json:"human_model" mapstructure:"human_model"`
	Config       string        `json:"config" mapstructure:"config"`
	StallTimeout time.Duration `json:"stall_timeout" mapstructure:"stall_timeout"`
}

// Information selects what the analysis overlay prints on candidates.
type Information string

const (
	InformationAll     Information = "All"
	InformationWinrate Information = "Winrate"
	InformationScore   Information = "Score"
)

type AnalysisConfig struct {
	Interval         int         `json:"interval" mapstructure:"interval"`
	MaxMoves         int         `json:"max_moves" mapstructure:"max_moves"`
	HiddenVisitRatio float64     `json:"hidden_visit_ratio" mapstructure:"hidden_visit_ratio"`
	Information      Information `json:"information" mapstructure:"information"`
}

type ConsoleConfig struct {
	MaxMessageLines      int `json:"max_message_lines" mapstructure:"max_message_lines"`
	MaxMessageCharacters int `json:"max_message_characters" mapstructure:"max_message_characters"`
}

const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

type StoreConfig struct {
	Backend  string `json:"backend" mapstructure:"backend"`
	Path     string `json:"path" mapstructure:"path"`
	RedisURL string `json:"redis_url" mapstructure:"redis_url"`
}

type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

type Config struct {
	Engine   EngineConfig      `json:"engine" mapstructure:"engine"`
	Game     engine.GameConfig `json:"game" mapstructure:"game"`
	Analysis AnalysisConfig    `json:"analysis" mapstructure:"analysis"`
	Console  ConsoleConfig     `json:"console" mapstructure:"console"`
	Store    StoreConfig       `json:"store" mapstructure:"store"`
	Log      LogConfig         `json:"log" mapstructure:"log"`
	Theme    Theme             `json:"theme" mapstructure:"theme"`
}

// InitConfig loads the configuration. Values come from the defaults, then
// the file at path (or the xdg config file when path is empty), then
// KATASUJI_* environment variables such as KATASUJI_ENGINE_MODEL.
func InitConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults, err := json.Marshal(DefaultConfig)
	if err != nil {
		return nil, err
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path, _ = xdg.SearchConfigFile(cfgFile)
	}
	if path != "" {
		if err := mergeCfgFile(v, path); err != nil {
			return nil, err
		}
	}

	config := DefaultConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func mergeCfgFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()
	if err := v.MergeConfig(f); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.BlackStone, c.Theme.Symbols.WhiteStone, c.Theme.Symbols.BoardSquare} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	for _, size := range []int{c.Game.Width, c.Game.Height} {
		if size < 2 || size > gtp.MaxColumns {
			return &InvalidConfig{fmt.Sprintf("board size %d is outside 2-%d", size, gtp.MaxColumns)}
		}
	}
	if c.Game.Rule < 0 || c.Game.Rule >= len(gtp.Rules) {
		return &InvalidConfig{fmt.Sprintf("rule index %d is outside 0-%d", c.Game.Rule, len(gtp.Rules)-1)}
	}
	if c.Analysis.Interval <= 0 || c.Analysis.MaxMoves <= 0 {
		return &InvalidConfig{"analysis interval and max_moves must be positive"}
	}
	switch c.Analysis.Information {
	case InformationAll, InformationWinrate, InformationScore:
	default:
		return &InvalidConfig{fmt.Sprintf("unknown analysis information %q", c.Analysis.Information)}
	}
	switch c.Store.Backend {
	case BackendBadger:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return &InvalidConfig{"store.redis_url is required for the redis backend"}
		}
	default:
		return &InvalidConfig{fmt.Sprintf("unknown store backend %q", c.Store.Backend)}
	}
	return nil
}

// StorePath returns the record database directory.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(xdg.DataHome, storeDir)
}

// LogPath returns the log file location.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return xdg.StateFile(logFile)
}

// Save writes the configuration to path, or to the xdg config file when
// path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		absPath, err := xdg.ConfigFile(cfgFile)
		if err != nil {
			return err
		}
		path = absPath
	}
	return saveCfgFile(path, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}
