package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

var (
	cfgFile    = "chomp-local/config.json"
	historyDir = "chomp-local/history"
	logFile    = "chomp-local/debug.log"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `json:"board"`
	BoardColorAlt     int `json:"board_alt"`
	CellColor         int `json:"cell"`
	EatenColor        int `json:"eaten"`
	PoisonColor       int `json:"poison"`
	LineColor         int `json:"line"`
	CursorColorFG     int `json:"cursor_fg"`
	CursorColorBG     int `json:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg"`
	HintColorBG       int `json:"hint_bg"`
}

type ConfigSymbols struct {
	Cell       rune `json:"cell"`
	Eaten      rune `json:"eaten"`
	Poison     rune `json:"poison"`
	Cursor     rune `json:"cursor"`
	LastPlayed rune `json:"last_played"`
}

type Theme struct {
	DrawCursorBackground     bool          `json:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg"`
	Colors                   ConfigColors  `json:"colors"`
	Symbols                  ConfigSymbols `json:"symbols"`
}

// EngineConfig holds the defaults offered on the setup screen.
type EngineConfig struct {
	DefaultLevel int  `json:"default_level"`
	PlayerFirst  bool `json:"player_first"`
	ShowHints    bool `json:"show_hints"`
}

// HistoryConfig controls game recording.
type HistoryConfig struct {
	Record bool   `json:"record"`
	Dir    string `json:"dir"` // empty means the XDG data dir
}

// ServerConfig holds settings for the suggestion server.
type ServerConfig struct {
	Addr string `json:"addr"`
}

type Config struct {
	Theme    Theme         `json:"theme"`
	Engine   EngineConfig  `json:"engine"`
	History  HistoryConfig `json:"history"`
	Server   ServerConfig  `json:"server"`
	LogLevel string        `json:"log_level"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.Cell, c.Theme.Symbols.Eaten, c.Theme.Symbols.Poison, c.Theme.Symbols.Cursor, c.Theme.Symbols.LastPlayed} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if c.Engine.DefaultLevel < 1 || c.Engine.DefaultLevel > 10 {
		return &InvalidConfig{fmt.Sprintf("engine level must be between 1 and 10, got %d", c.Engine.DefaultLevel)}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.LogLevel)}
	}
	return nil
}

// HistoryDir returns the directory game records are written to.
func (c *Config) HistoryDir() string {
	if c.History.Dir != "" {
		return c.History.Dir
	}
	return HistoryDir()
}

// HistoryDir returns the default record directory under the XDG data home.
func HistoryDir() string {
	return filepath.Join(xdg.DataHome, historyDir)
}

// LogFile returns the path of the debug log, creating its directory.
func LogFile() (string, error) {
	return xdg.StateFile(logFile)
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return fmt.Errorf("locate config file: %w", err)
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	configReader, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(configReader, a); err != nil {
		return fmt.Errorf("parse %s: %w", filePath, err)
	}
	return nil
}
