package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Only the flags listed here are passed to the FlagSet, so any other
// arguments (for example -c) do not make parsing fail.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-p", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "dashboard base URL")
	fs.StringVar(&cfg.StoragePath, "d", cfg.StoragePath, "session storage file")
	poll := fs.Int("p", int(cfg.PollInterval.Seconds()), "poll interval (in seconds)")
	watch := fs.Int("w", int(cfg.WatchInterval.Seconds()), "storage watch interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*poll) * time.Second
	cfg.WatchInterval = time.Duration(*watch) * time.Second
}
