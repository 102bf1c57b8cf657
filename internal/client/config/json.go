package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dealership/internal/flagx"
	"github.com/dmitrijs2005/dealership/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	BackendURL          string         `json:"backend_url"`
	DataDir             string         `json:"data_dir"`
	HTTPTimeout         timex.Duration `json:"http_timeout"`
	VerifyRedirectDelay timex.Duration `json:"verify_redirect_delay"`
	ResendInterval      timex.Duration `json:"resend_interval"`
	LogLevel            string         `json:"log_level"`
	GoogleClientID      string         `json:"google_client_id"`
	GoogleClientSecret  string         `json:"google_client_secret"`
	GoogleDeviceAuthURL string         `json:"google_device_auth_url"`
	GoogleTokenURL      string         `json:"google_token_url"`
}

// parseJson overlays cfg with the JSON file named by -c/-config or
// DEALERSHIP_CONFIG. Without either it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args, EnvConfigPath)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// start from the current values so absent keys keep them
	jc := JsonConfig{
		BackendURL:          cfg.BackendURL,
		DataDir:             cfg.DataDir,
		HTTPTimeout:         timex.Duration{Duration: cfg.HTTPTimeout},
		VerifyRedirectDelay: timex.Duration{Duration: cfg.VerifyRedirectDelay},
		ResendInterval:      timex.Duration{Duration: cfg.ResendInterval},
		LogLevel:            cfg.LogLevel,
		GoogleClientID:      cfg.Google.ClientID,
		GoogleClientSecret:  cfg.Google.ClientSecret,
		GoogleDeviceAuthURL: cfg.Google.DeviceAuthURL,
		GoogleTokenURL:      cfg.Google.TokenURL,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	cfg.BackendURL = jc.BackendURL
	cfg.DataDir = jc.DataDir
	cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	cfg.VerifyRedirectDelay = jc.VerifyRedirectDelay.Duration
	cfg.ResendInterval = jc.ResendInterval.Duration
	cfg.LogLevel = jc.LogLevel
	cfg.Google.ClientID = jc.GoogleClientID
	cfg.Google.ClientSecret = jc.GoogleClientSecret
	cfg.Google.DeviceAuthURL = jc.GoogleDeviceAuthURL
	cfg.Google.TokenURL = jc.GoogleTokenURL
	return nil
}
