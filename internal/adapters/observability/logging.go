package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger tagged with the service name so api and
// importer logs stay distinguishable when shipped to the same sink.
// APP_ENV=dev (or development) uses a human-friendly console writer.
func NewLogger(service, env string) zerolog.Logger {
	return newLogger(os.Stdout, service, env)
}

func newLogger(w io.Writer, service, env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Str("service", service).Logger()
}
