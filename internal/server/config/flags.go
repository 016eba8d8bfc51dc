package config

import (
	"flag"
	"os"

	"github.com/benrowan/crusty-crawler/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-p int      HTTP port (default 3000)
//	-b string   bind host (default "0.0.0.0")
//	-f string   credential store path (default "crusty_auth.json")
//	-s string   static files directory (default "public")
//	-l string   log level ("debug", "info", "warn", "error")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, so the free-standing mode words (start, daemon, ...)
// never confuse the parse.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-b", "-f", "-s", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.IntVar(&config.Port, "p", config.Port, "HTTP port to serve on")
	fs.StringVar(&config.BindHost, "b", config.BindHost, "host/interface to bind")
	fs.StringVar(&config.AuthFile, "f", config.AuthFile, "credential store file")
	fs.StringVar(&config.StaticDir, "s", config.StaticDir, "static files directory")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
