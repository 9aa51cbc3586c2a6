// Package config loads runtime configuration for the finctl CLI.
//
// Sources, in order of precedence (later wins):
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Global command-line flags (see GlobalFlags).
//
// JSON example:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "token_file": "/home/me/.gophledger/token",
//	  "request_timeout": "10s"
//	}
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for finctl.
//
// Fields:
//   - ServerURL: base URL of the GophLedger HTTP API.
//   - TokenFile: where the bearer token obtained by "login" is kept.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string
	TokenFile      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.TokenFile = defaultTokenFile()
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gophledger_token"
	}
	return filepath.Join(home, ".gophledger", "token")
}
