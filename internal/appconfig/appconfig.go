// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mwiater/promptsql/internal/history"
	"github.com/mwiater/promptsql/internal/pagination"
	"github.com/mwiater/promptsql/internal/session"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultAPIURL is the backend base URL used when none is configured.
	DefaultAPIURL = "http://localhost:8000"
	// DefaultTimeoutSeconds is the default timeout for HTTP requests, in seconds.
	DefaultTimeoutSeconds = 30
)

// Config represents the top-level application configuration.
type Config struct {
	APIURL          string `json:"apiURL" mapstructure:"apiURL"`
	Debug           bool   `json:"debug" mapstructure:"debug"`
	TimeoutSeconds  int    `json:"timeout,omitempty" mapstructure:"timeout"`
	LogFile         string `json:"logFile,omitempty" mapstructure:"logFile"`
	CredentialFile  string `json:"credentialFile,omitempty" mapstructure:"credentialFile"`
	HistoryCapacity int    `json:"historyCapacity,omitempty" mapstructure:"historyCapacity"`
	MaxVisiblePages int    `json:"maxVisiblePages,omitempty" mapstructure:"maxVisiblePages"`
	ConfigPath      string `json:"-" mapstructure:"-"`
}

// BaseURL returns the backend base URL without a trailing slash.
func (c Config) BaseURL() string {
	base := strings.TrimSpace(c.APIURL)
	if base == "" {
		base = DefaultAPIURL
	}
	return strings.TrimRight(base, "/")
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "promptsql.log"
}

// CredentialPath returns where the session token is kept.
func (c Config) CredentialPath() string {
	if path := strings.TrimSpace(c.CredentialFile); path != "" {
		return path
	}
	return session.DefaultPath()
}

// Capacity returns how many results a session keeps.
func (c Config) Capacity() int {
	if c.HistoryCapacity <= 0 {
		return history.DefaultCapacity
	}
	return c.HistoryCapacity
}

// VisiblePages returns how many page controls are shown at once.
func (c Config) VisiblePages() int {
	if c.MaxVisiblePages <= 0 {
		return pagination.DefaultMaxVisible
	}
	return c.MaxVisiblePages
}

// Validate checks that the configuration can be used to reach the backend.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL())
	if err != nil {
		return fmt.Errorf("invalid apiURL %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid apiURL %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid apiURL %q: missing host", c.APIURL)
	}
	return nil
}
