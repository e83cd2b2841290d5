// Package logging configures the global zerolog logger and the structured pool events.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the zerolog logger with the given level name and output format.
func InitLogger(level string, human bool) {
	InitLoggerTo(os.Stdout, level, human)
}

// InitLoggerTo is InitLogger writing to out.
func InitLoggerTo(out io.Writer, level string, human bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano             // always initialize base logger with timestamp.
	base := zerolog.New(out).With().Timestamp().Logger() // initialize base logger.
	if human {
		log.Logger = base.Output(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339Nano,
		}) // select output format.
	} else {
		log.Logger = base // use JSON logger.
	}
	zerolog.SetGlobalLevel(ParseLevel(level))
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.TrimSpace(strings.ToLower(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return lvl
}

// LogSpawn logs an instance leaving its pool.
func LogSpawn(prototype, category, instanceID string, reused bool, active, free int) {
	log.Debug().
		Str("event", "instance_spawned").
		Str("prototype", prototype).
		Str("category", category).
		Str("instance", instanceID).
		Bool("reused", reused).
		Int("active", active).
		Int("free", free).
		Msg("spawned instance")
}

// LogReturn logs an instance going back to its pool.
func LogReturn(prototype, category, instanceID string, destroyed bool, active, free int) {
	log.Debug().
		Str("event", "instance_returned").
		Str("prototype", prototype).
		Str("category", category).
		Str("instance", instanceID).
		Bool("destroyed", destroyed).
		Int("active", active).
		Int("free", free).
		Msg("returned instance")
}
