package main

import (
	"io"

	"github.com/rs/zerolog"
)

// setupLogger returns a logger configured for the given environment.
//
// dev (and anything unrecognised): human-readable console output, debug.
// staging: JSON, debug.
// prod: JSON, info.
//
// Logs go to w (stderr) so that stdout carries only command output.
func setupLogger(env string, w io.Writer) zerolog.Logger {
	switch env {
	case "prod":
		return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	case "staging":
		return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	default:
		return zerolog.New(zerolog.ConsoleWriter{Out: w}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
}
