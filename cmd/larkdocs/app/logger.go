package app

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/pkg/logging"
)

// NewLogger creates the application logger. Level precedence, highest
// first:
//  1. --log-level flag
//  2. -v/--verbose (debug)
//  3. -q/--quiet (warn)
//  4. log.level from config file or LOG_LEVEL
//  5. info
func NewLogger(cfg *Config, flags *Flags) zerolog.Logger {
	level := determineLogLevel(cfg, flags, os.Stderr)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    cfg.Log.Output,
		NoColor:   flags.NoColor || os.Getenv("NO_COLOR") != "",
		AddCaller: level == "debug" || level == "trace",
	})
}

func determineLogLevel(cfg *Config, flags *Flags, warn io.Writer) string {
	if flags.LogLevel != "" {
		return validateLogLevel(flags.LogLevel, warn)
	}
	if flags.Verbose && flags.Quiet {
		fmt.Fprintln(warn, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	}
	if flags.Verbose {
		return "debug"
	}
	if flags.Quiet {
		return "warn"
	}
	if cfg.Log.Level != "" {
		return validateLogLevel(cfg.Log.Level, warn)
	}
	return "info"
}

func validateLogLevel(level string, warn io.Writer) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	}
	fmt.Fprintf(warn, "Warning: invalid log level %q, using \"info\"\n", level)
	return "info"
}
