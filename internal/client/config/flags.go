package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/dealership/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only -a, -d, -t and -l are looked at; everything else in args is left for
// other parsers.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BackendURL, "a", cfg.BackendURL, "base URL of the identity backend")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory for the local client database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	httpTimeout := fs.Int("t", int(cfg.HTTPTimeout.Seconds()), "HTTP timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.HTTPTimeout = time.Duration(*httpTimeout) * time.Second
	return nil
}
