// Package obslog configures the process-wide zerolog logger used by the
// façade, the search loops and the benchmark harness. It replaces the
// fmt.Println/fmt.Printf progress output a script-style CLI would
// otherwise reach for.
package obslog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the package-wide logger. It defaults to structured JSON on
// stderr; callers replace it by assigning the result of New.
var Logger = New(os.Stderr, false)

// New builds a zerolog.Logger. pretty selects a human-readable console
// writer (for interactive CLI use); otherwise structured JSON is written,
// suited to log aggregation when the CLI runs as a service/benchmark job.
func New(w io.Writer, pretty bool) zerolog.Logger {
	var out io.Writer = w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// SetLevel parses level (e.g. "debug", "info", "warn") and applies it to
// Logger, falling back to info on a bad level instead of failing startup.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	Logger = Logger.Level(lvl)
}
