// Package logging configures the logrus logger shared by the trial.
package logging

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Options configures a logger.
type Options struct {
	// Level is a logrus level name ("debug", "info", "warn", ...).
	// Empty means info.
	Level string

	// Output defaults to stderr so reports on stdout stay machine-readable.
	Output io.Writer

	// NoColor disables colored level names.
	NoColor bool
}

// New returns a logger configured with a full-timestamp text formatter.
func New(opts Options) (*log.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
		DisableColors: opts.NoColor,
	})
	return logger, nil
}

// ForWorker tags entries with the fan-out worker index and its process id.
func ForWorker(logger log.FieldLogger, index, pid int) *log.Entry {
	return logger.WithFields(log.Fields{
		"worker": index,
		"pid":    pid,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}
