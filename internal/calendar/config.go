package calendar

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds calendar client configuration.
type Config struct {
	BaseURL    string
	CalendarID string
	TokenFile  string
	TimeoutMs  int
}

// DefaultConfig returns a Config pointing at the primary calendar of the
// public Google Calendar API.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		BaseURL:    "https://www.googleapis.com/calendar/v3",
		CalendarID: "primary",
		TokenFile:  filepath.Join(home, ".bulario", "token.json"),
		TimeoutMs:  15000,
	}
}

// LoadConfig reads calendar configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BULARIO_CALENDAR_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("BULARIO_CALENDAR_ID"); v != "" {
		cfg.CalendarID = v
	}
	if v := os.Getenv("BULARIO_CALENDAR_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("BULARIO_CALENDAR_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}

	return cfg
}

// NewTokenSource builds the credential source for this configuration: the
// BULARIO_CALENDAR_TOKEN variable wins when set, otherwise the token file.
func (c Config) NewTokenSource() TokenSource {
	if v := os.Getenv("BULARIO_CALENDAR_TOKEN"); v != "" {
		return StaticTokenSource(v)
	}
	return NewFileTokenStore(c.TokenFile)
}
