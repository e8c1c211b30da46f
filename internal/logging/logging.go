// Package logging configures the zerolog loggers used by the services.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// logger fields
const (
	SERVICE = "svc"
	REQUEST = "req_id"
	ROUTE   = "route"
	EVENT   = "event"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case) to a zerolog level.
// Anything else yields InfoLevel.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger writing JSON to w with svc={service}.
func New(service, level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str(SERVICE, service).
		Logger()
}
