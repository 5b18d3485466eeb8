package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the shared application logger. It stays a no-op until Init runs.
var Log = zerolog.Nop()

// Init configures the global logger. Debug mode gets a human-readable
// console writer, release mode gets JSON on stdout.
func Init(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
		return
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	Log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
