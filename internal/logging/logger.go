package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options controls log level and output format.
type Options struct {
	Verbose bool   // debug level
	Quiet   bool   // errors only
	Format  string // auto, console, json
}

// New builds the process logger. Logs go to stderr so JSON results on
// stdout stay machine-readable; the console writer is used on terminals
// unless the format is forced.
func New(opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case opts.Quiet:
		level = zerolog.ErrorLevel
	case opts.Verbose:
		level = zerolog.DebugLevel
	}

	var writer io.Writer = os.Stderr
	if useConsole(opts.Format) {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", "ai-triage").
		Logger()
}

func useConsole(format string) bool {
	switch format {
	case "console":
		return true
	case "json":
		return false
	default:
		return isatty.IsTerminal(os.Stderr.Fd())
	}
}
