package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/alphasolutions/piauieventos-cli/internal/flagx"
)

var knownFlags = []string{"-a", "-s", "-t", "-r", "-b", "-l"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend API base URL
//	-s string   local store path
//	-t int      request timeout in seconds
//	-r int      revalidation interval in seconds
//	-b bool     bearer-token fallback
//	-l string   log level
//
// args is filtered with flagx.FilterArgs so flags owned by other components
// (such as -c) do not cause errors.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("eventos", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "local store path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	revalidate := fs.Int("r", int(cfg.RevalidateInterval.Seconds()), "session revalidation interval (in seconds)")
	fs.BoolVar(&cfg.BearerFallback, "b", cfg.BearerFallback, "send cached bearer token alongside cookies")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("config: parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "r":
			cfg.RevalidateInterval = time.Duration(*revalidate) * time.Second
		}
	})
	return nil
}
