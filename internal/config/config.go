// Package config loads flingwatch settings from ~/.flingwatch/config.json
// with environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the persistent application configuration
type Config struct {
	// BaseURL is the coordination API root, e.g. http://localhost:5000
	BaseURL string `json:"base_url"`

	Poll  PollConfig `json:"poll"`
	Feeds FeedConfig `json:"feeds"`
	UI    UIConfig   `json:"ui"`

	// LogLevel for the file log: debug, info, warn, error
	LogLevel string `json:"log_level"`
}

// PollConfig holds polling periods and request limits. Durations are in
// milliseconds.
type PollConfig struct {
	CoreIntervalMs  int `json:"core_interval_ms"`  // stats + reservations
	FlingIntervalMs int `json:"fling_interval_ms"` // /flings
	ChatIntervalMs  int `json:"chat_interval_ms"`  // /get_chatlogs
	ChatLimit       int `json:"chat_limit"`
	TimeoutMs       int `json:"timeout_ms"`        // per request
	MinSpacingMs    int `json:"min_spacing_ms"`    // client-side pacing, 0 = off
}

// FeedConfig holds the display caps.
type FeedConfig struct {
	MaxFlings int `json:"max_flings"`
	MaxChat   int `json:"max_chat"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	ShowReservations bool   `json:"show_reservations"`
	ReservationSort  string `json:"reservation_sort"` // timestamp, players, region, id
	FlashMs          int    `json:"flash_ms"`         // "updated" highlight on stat cards
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:5000",
		Poll: PollConfig{
			CoreIntervalMs:  1500,
			FlingIntervalMs: 1000,
			ChatIntervalMs:  750,
			ChatLimit:       50,
			TimeoutMs:       10000,
			MinSpacingMs:    50,
		},
		Feeds: FeedConfig{
			MaxFlings: 100,
			MaxChat:   200,
		},
		UI: UIConfig{
			ShowReservations: true,
			ReservationSort:  "timestamp",
			FlashMs:          300,
		},
		LogLevel: "info",
	}
}

// DataDir returns ~/.flingwatch, or FLINGWATCH_HOME when set.
func DataDir() string {
	if dir := os.Getenv("FLINGWATCH_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".flingwatch")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// Load reads config from path (ConfigPath when empty), loads a .env file
// from the working directory if one exists, and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	// a missing .env is normal
	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes config to path (ConfigPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ApplyEnv overrides fields from FLINGWATCH_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("FLINGWATCH_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("FLINGWATCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	ints := []struct {
		env string
		dst *int
	}{
		{"FLINGWATCH_CHAT_LIMIT", &c.Poll.ChatLimit},
		{"FLINGWATCH_CORE_INTERVAL_MS", &c.Poll.CoreIntervalMs},
		{"FLINGWATCH_FLING_INTERVAL_MS", &c.Poll.FlingIntervalMs},
		{"FLINGWATCH_CHAT_INTERVAL_MS", &c.Poll.ChatIntervalMs},
		{"FLINGWATCH_TIMEOUT_MS", &c.Poll.TimeoutMs},
		{"FLINGWATCH_MAX_FLINGS", &c.Feeds.MaxFlings},
		{"FLINGWATCH_MAX_CHAT", &c.Feeds.MaxChat},
	}
	for _, e := range ints {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: want a positive integer, got %q", e.env, v)
		}
		*e.dst = n
	}
	return nil
}

// fillDefaults replaces zero or negative values left by a partial file.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	pos := func(dst *int, def int) {
		if *dst <= 0 {
			*dst = def
		}
	}
	pos(&c.Poll.CoreIntervalMs, d.Poll.CoreIntervalMs)
	pos(&c.Poll.FlingIntervalMs, d.Poll.FlingIntervalMs)
	pos(&c.Poll.ChatIntervalMs, d.Poll.ChatIntervalMs)
	pos(&c.Poll.ChatLimit, d.Poll.ChatLimit)
	pos(&c.Poll.TimeoutMs, d.Poll.TimeoutMs)
	pos(&c.Feeds.MaxFlings, d.Feeds.MaxFlings)
	pos(&c.Feeds.MaxChat, d.Feeds.MaxChat)
	pos(&c.UI.FlashMs, d.UI.FlashMs)
	if c.Poll.MinSpacingMs < 0 {
		c.Poll.MinSpacingMs = 0
	}
	if c.UI.ReservationSort == "" {
		c.UI.ReservationSort = d.UI.ReservationSort
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// CoreInterval is the stats/reservations polling period.
func (c *Config) CoreInterval() time.Duration { return ms(c.Poll.CoreIntervalMs) }

// FlingInterval is the fling feed polling period.
func (c *Config) FlingInterval() time.Duration { return ms(c.Poll.FlingIntervalMs) }

// ChatInterval is the chat feed polling period.
func (c *Config) ChatInterval() time.Duration { return ms(c.Poll.ChatIntervalMs) }

// Timeout is the per-request deadline.
func (c *Config) Timeout() time.Duration { return ms(c.Poll.TimeoutMs) }

// MinSpacing is the minimum gap between requests.
func (c *Config) MinSpacing() time.Duration { return ms(c.Poll.MinSpacingMs) }

// Flash is how long a changed stat card stays highlighted.
func (c *Config) Flash() time.Duration { return ms(c.UI.FlashMs) }
