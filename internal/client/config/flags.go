package config

import (
	"flag"
	"os"
	"time"

	"github.com/BrasserTech/handluz/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   backend Postgres DSN (default from Config)
//	-l string   local database path (default from Config)
//	-p string   push gateway URL (default from Config)
//	-t int      remote call timeout in seconds (default from Config)
//
// The argument list is filtered first so flags owned by other components
// (e.g. -c/-config) do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-p", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RemoteDSN, "d", cfg.RemoteDSN, "backend database DSN")
	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "local database path")
	fs.StringVar(&cfg.PushGatewayURL, "p", cfg.PushGatewayURL, "push gateway URL")
	remoteTimeout := fs.Int("t", int(cfg.RemoteTimeout.Seconds()), "remote call timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RemoteTimeout = time.Duration(*remoteTimeout) * time.Second
}
