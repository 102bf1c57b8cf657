package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/dealership/internal/client/identity"
)

// EnvConfigPath names the environment variable consulted for the JSON file
// when no -c flag is given.
const EnvConfigPath = "DEALERSHIP_CONFIG"

// Config holds runtime settings for the dealership client.
type Config struct {
	BackendURL string
	// DataDir holds client.db, the durable tier of the session store.
	DataDir     string
	HTTPTimeout time.Duration
	// VerifyRedirectDelay keeps the verification result visible before the
	// client moves on.
	VerifyRedirectDelay time.Duration
	// ResendInterval limits how often verification and reset emails can be
	// requested.
	ResendInterval time.Duration
	LogLevel       string
	Google         identity.GoogleConfig
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:8080"
	c.DataDir = defaultDataDir()
	c.HTTPTimeout = 10 * time.Second
	c.VerifyRedirectDelay = 3 * time.Second
	c.ResendInterval = time.Minute
	c.LogLevel = "info"
	c.Google = identity.GoogleConfig{
		DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
		TokenURL:      "https://oauth2.googleapis.com/token",
	}
}

// DBPath is the SQLite file inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "client.db")
}

// GoogleEnabled reports whether a Google OAuth client is configured.
func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != ""
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "dealership")
	}
	return ".dealership"
}

// LoadConfig applies defaults, then the JSON file if any, then flags from
// args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
