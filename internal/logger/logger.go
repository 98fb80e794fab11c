package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns the application logger writing human-readable output to stderr.
func New() zerolog.Logger {
	return log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
