package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ICSConfig describes a read-only ICS subscription merged into the calendar.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown in the UI.
	Name string `yaml:"name" json:"name"`
}

// SnapshotConfig controls the -snapshot PNG capture.
type SnapshotConfig struct {
	// URL of the calendar page to capture. Empty means the local server.
	URL    string `yaml:"url" json:"url"`
	Output string `yaml:"output" json:"output"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address of the calendar front end.
	Listen string `yaml:"listen" json:"listen"`

	// APIBaseURL is the backend REST API root, e.g. "http://127.0.0.1:5000".
	APIBaseURL string `yaml:"api_base_url" json:"api_base_url"`

	// Timezone is the IANA zone used for "today" and event dates.
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron schedule (e.g. "*/5 * * * *") for reloading the
	// cached collections from the backend. "off" disables it.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// UpcomingDays is the look-ahead of the upcoming events list.
	UpcomingDays int `yaml:"upcoming_days" json:"upcoming_days"`

	// MonthOverflowCap is how many events a month cell shows before "+N więcej".
	MonthOverflowCap int `yaml:"month_overflow_cap" json:"month_overflow_cap"`

	// NotificationTTL is how long calendar notifications stay visible.
	NotificationTTL time.Duration `yaml:"notification_ttl" json:"notification_ttl"`

	// RequestTimeout bounds each backend request. Zero means no timeout.
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// ICS is the list of read-only overlay subscriptions.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// ICSCacheDir holds the ETag/body cache of the overlay feeds.
	ICSCacheDir string `yaml:"ics_cache_dir" json:"ics_cache_dir"`

	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`
}

const (
	defaultListen      = "127.0.0.1:8080"
	defaultAPIBaseURL  = "http://127.0.0.1:5000"
	defaultTimezone    = "Europe/Warsaw"
	defaultRefreshCron = "*/5 * * * *"
	defaultCacheDir    = "./var/ics-cache"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:           defaultListen,
		APIBaseURL:       defaultAPIBaseURL,
		Timezone:         defaultTimezone,
		RefreshCron:      defaultRefreshCron,
		UpcomingDays:     7,
		MonthOverflowCap: 3,
		NotificationTTL:  5 * time.Second,
		LogLevel:         "info",
		ICS:              []ICSConfig{},
		ICSCacheDir:      defaultCacheDir,
		Snapshot: SnapshotConfig{
			Output: "calendar.png",
			Width:  1280,
			Height: 960,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.UpcomingDays <= 0 {
		c.UpcomingDays = 7
	}
	if c.MonthOverflowCap <= 0 {
		c.MonthOverflowCap = 3
	}
	if c.NotificationTTL <= 0 {
		c.NotificationTTL = 5 * time.Second
	}
	if c.RequestTimeout < 0 {
		c.RequestTimeout = 0
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	for i := range c.ICS {
		if c.ICS[i].ID == "" {
			c.ICS[i].ID = fmt.Sprintf("ics%d", i+1)
		}
	}
	if c.ICSCacheDir == "" {
		c.ICSCacheDir = defaultCacheDir
	}
	if c.Snapshot.Output == "" {
		c.Snapshot.Output = "calendar.png"
	}
	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = 1280
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = 960
	}
}

// RefreshEnabled reports whether the periodic reload should be scheduled.
func (c *Config) RefreshEnabled() bool {
	return c.RefreshCron != "" && !strings.EqualFold(c.RefreshCron, "off")
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".mentorhub-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
