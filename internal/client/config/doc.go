// Package config loads runtime configuration for the dealership client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, named by -c/-config or the DEALERSHIP_CONFIG
//     environment variable.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the identity backend
//	-d string   directory holding the local client database
//	-t int      HTTP timeout (seconds)
//	-l string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds. Keys missing from the file keep their earlier value:
//
//	{
//	  "backend_url": "https://shop.example",
//	  "data_dir": "/home/dana/.config/dealership",
//	  "http_timeout": "10s",
//	  "verify_redirect_delay": "3s",
//	  "resend_interval": "1m",
//	  "log_level": "info",
//	  "google_client_id": "...apps.googleusercontent.com",
//	  "google_client_secret": "...",
//	  "google_device_auth_url": "https://oauth2.googleapis.com/device/code",
//	  "google_token_url": "https://oauth2.googleapis.com/token"
//	}
package config
