// Package config loads and saves the JSON config file holding OAuth
// credentials and cache/selection settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/theakshaypant/nxt/internal/core"
	"github.com/theakshaypant/nxt/internal/util"
)

const (
	AppName  = "nxt"
	FileName = "config.json"

	ProviderGoogle  = "google"
	ProviderOutlook = "outlook"

	DefaultCacheDuration     = 30 * time.Minute
	DefaultEventsPerCalendar = 5
)

var (
	ErrNotFound         = errors.New("config file does not exist")
	ErrNotAuthenticated = errors.New("no stored credentials")
)

// Creds holds the OAuth client and the tokens obtained by `nxt auth`.
type Creds struct {
	ClientID     string `json:"client_id" mapstructure:"client_id"`
	ClientSecret string `json:"client_secret" mapstructure:"client_secret"`
	// Outlook only; empty means "common".
	TenantID     string    `json:"tenant_id,omitempty" mapstructure:"tenant_id"`
	Token        string    `json:"token" mapstructure:"token"`
	RefreshToken string    `json:"refresh_token" mapstructure:"refresh_token"`
	TokenExpiry  time.Time `json:"token_expiry,omitzero" mapstructure:"token_expiry"`
}

// OAuthToken converts the stored tokens. Without a recorded expiry the access
// token is marked expired so the first request refreshes it.
func (c Creds) OAuthToken() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.Token,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.TokenExpiry,
	}
	if tok.Expiry.IsZero() {
		tok.Expiry = time.Unix(1, 0)
	}
	return tok
}

// Authenticated reports whether a refresh token is on record.
func (c Creds) Authenticated() bool {
	return c.ClientID != "" && c.RefreshToken != ""
}

// SetToken stores tok. An empty refresh token keeps the existing one, since
// providers usually omit it on refresh.
func (c *Creds) SetToken(tok *oauth2.Token) {
	c.Token = tok.AccessToken
	if tok.RefreshToken != "" {
		c.RefreshToken = tok.RefreshToken
	}
	c.TokenExpiry = tok.Expiry
}

type Config struct {
	// google or outlook
	Provider string `json:"provider" mapstructure:"provider"`
	Creds    Creds  `json:"creds" mapstructure:"creds"`

	NoCache              bool  `json:"nocache" mapstructure:"nocache"`
	CacheDurationSeconds int64 `json:"cache_duration_seconds" mapstructure:"cache_duration_seconds"`
	// Overrides the default cache file location.
	CachePath string `json:"cache_path,omitempty" mapstructure:"cache_path"`

	SelectedCalendars core.CalendarSelection `json:"selected_calendars" mapstructure:"selected_calendars"`
	// Upcoming events starting this far out or more are not reported. nil disables the limit.
	MaxTimeUntilEventSeconds *int64 `json:"max_time_until_event_seconds" mapstructure:"max_time_until_event_seconds"`
	EventsPerCalendar        int64  `json:"events_per_calendar" mapstructure:"events_per_calendar"`
}

// Default returns the config used when no file can be loaded.
func Default() *Config {
	return &Config{
		Provider:             ProviderGoogle,
		CacheDurationSeconds: int64(DefaultCacheDuration / time.Second),
		SelectedCalendars:    core.CalendarSelection{Mode: core.SelectAll},
		EventsPerCalendar:    DefaultEventsPerCalendar,
	}
}

// CacheTTL is the maximum age of the event cache.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheDurationSeconds) * time.Second
}

// Horizon returns the look-ahead limit, or nil when unset.
func (c *Config) Horizon() *time.Duration {
	if c.MaxTimeUntilEventSeconds == nil {
		return nil
	}
	d := time.Duration(*c.MaxTimeUntilEventSeconds) * time.Second
	return &d
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGoogle, ProviderOutlook:
	default:
		return fmt.Errorf("unknown provider %q (supported: google, outlook)", c.Provider)
	}
	if c.CacheDurationSeconds < 0 {
		return fmt.Errorf("cache_duration_seconds must not be negative")
	}
	if c.EventsPerCalendar <= 0 {
		return fmt.Errorf("events_per_calendar must be positive")
	}
	return c.SelectedCalendars.Validate()
}

// DefaultPath returns <user config dir>/nxt/config.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, AppName, FileName), nil
}

// Load reads the config file at path. Values can be overridden with NXT_*
// environment variables (NXT_NOCACHE, NXT_CACHE_DURATION_SECONDS, ...).
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadFile reads the config file at path without environment overrides.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, withEnv bool) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if withEnv {
		v.SetEnvPrefix(strings.ToUpper(AppName))
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	def := Default()
	v.SetDefault("provider", def.Provider)
	v.SetDefault("nocache", def.NoCache)
	v.SetDefault("cache_duration_seconds", def.CacheDurationSeconds)
	v.SetDefault("cache_path", "")
	v.SetDefault("events_per_calendar", def.EventsPerCalendar)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		selectionHook,
		mapstructure.StringToTimeHookFunc(time.RFC3339),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveCreds stores provider and creds in the file at path and leaves every
// other setting as the file has it, so environment overrides are never
// written back. A missing file is created from Default.
func SaveCreds(path, provider string, creds Creds) error {
	cfg, err := LoadFile(path)
	if errors.Is(err, ErrNotFound) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return err
	}
	cfg.Provider = provider
	cfg.Creds = creds
	return cfg.Save(path)
}

// Save writes the config to path with 0600 permissions.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := util.WriteFileAtomic(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

var selectionType = reflect.TypeOf(core.CalendarSelection{})

// selectionHook also accepts the older shorthand forms of selected_calendars:
// "All", {"Whitelist": [...]} and {"Blacklist": [...]}.
func selectionHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != selectionType {
		return data, nil
	}

	switch v := data.(type) {
	case string:
		return map[string]any{"mode": strings.ToLower(v)}, nil
	case map[string]any:
		if _, ok := v["mode"]; ok || len(v) != 1 {
			return data, nil
		}
		for k, ids := range v {
			return map[string]any{"mode": strings.ToLower(k), "ids": ids}, nil
		}
	}
	return data, nil
}
