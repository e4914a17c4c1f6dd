package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Stderr selects the terminal instead of a log file. The TUI owns stdout,
// so interactive runs always log to a file.
const Stderr = "-"

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Init points the global zerolog logger at target (a file path or Stderr)
// and sets the level. The returned closer flushes the log file.
func Init(level, target string) (io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.WriteCloser
	if target == "" || target == Stderr {
		out = nopCloser{os.Stderr}
	} else {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
		f, err := os.OpenFile(target, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
	}

	noColor := target != "" && target != Stderr
	w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: noColor}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	SetLevel(level)
	return out, nil
}

// SetLevel parses level and applies it globally, falling back to info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
		log.Trace().Str("loglevel", lvl.String()).Msg("no usable log level set, using default")
	}
	zerolog.SetGlobalLevel(lvl)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
