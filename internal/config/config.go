package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Defaults used when no config file is loaded or a field is left at zero.
const (
	DefaultTurnDurationSeconds     = 20
	DefaultBotAutoFillDelaySeconds = 5
	DefaultTrickPauseTicks         = 2
	DefaultHandPauseTicks          = 5
	DefaultBotLevel                = "greedy"
	DefaultLeaderboardID           = "hearts_wins"
)

type GameConfig struct {
	// TurnDurationSeconds is how long a human may take before a bot plays for them.
	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before filling a solo human lobby with bots.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// TrickPauseTicks keeps a full trick on the table before it is collected.
	TrickPauseTicks int `json:"trick_pause_ticks"`
	// HandPauseTicks is the pause between a scored hand and the next deal.
	HandPauseTicks  int    `json:"hand_pause_ticks"`
	DefaultBotLevel string `json:"default_bot_level"`
	LeaderboardID   string `json:"leaderboard_id"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// ReadGameConfig parses a config file without touching the global config.
func ReadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	var c GameConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	return &c, nil
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		cfg, loadErr = ReadGameConfig(path)
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil when none is loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

func (c *GameConfig) TurnDuration() int {
	if c == nil || c.TurnDurationSeconds <= 0 {
		return DefaultTurnDurationSeconds
	}
	return c.TurnDurationSeconds
}

func (c *GameConfig) BotAutoFillDelay() int {
	if c == nil || c.BotAutoFillDelaySeconds <= 0 {
		return DefaultBotAutoFillDelaySeconds
	}
	return c.BotAutoFillDelaySeconds
}

func (c *GameConfig) TrickPause() int {
	if c == nil || c.TrickPauseTicks <= 0 {
		return DefaultTrickPauseTicks
	}
	return c.TrickPauseTicks
}

func (c *GameConfig) HandPause() int {
	if c == nil || c.HandPauseTicks <= 0 {
		return DefaultHandPauseTicks
	}
	return c.HandPauseTicks
}

func (c *GameConfig) BotLevel() string {
	if c == nil || c.DefaultBotLevel == "" {
		return DefaultBotLevel
	}
	return c.DefaultBotLevel
}

func (c *GameConfig) Leaderboard() string {
	if c == nil || c.LeaderboardID == "" {
		return DefaultLeaderboardID
	}
	return c.LeaderboardID
}
