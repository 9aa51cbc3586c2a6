package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/flagx"
)

// GlobalFlags lists the flags owned by this package. They may appear
// anywhere on the command line and are stripped before subcommand parsing.
var GlobalFlags = []string{"-a", "-t", "-w", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the API server
//	-t string   token file path
//	-w int      request timeout (in seconds)
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the API server")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "token file path")
	timeout := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
