package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/sesdash/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   listen address (e.g., ":80")
//	-b string   backend origin (e.g., "http://backend:8080")
//	-s string   static assets directory
//	-l string   log level
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-s", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.BackendURL, "b", config.BackendURL, "backend origin")
	fs.StringVar(&config.StaticDir, "s", config.StaticDir, "static assets directory")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
