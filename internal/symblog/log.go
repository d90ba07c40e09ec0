// Package symblog provides the structured logger shared by the text-buffer
// engine. It never logs on pure-read paths — only mutations, growth, and
// backpressure events that an embedder would want surfaced.
package symblog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(io.Discard).With().Timestamp().Logger()
)

// SetOutput redirects the logger's writer. Embedders call this once during
// startup; the default is io.Discard so the library is silent unless asked.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel sets the minimum level the logger emits.
func SetLevel(lvl zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Level(lvl)
}

// Logger returns the current shared logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug is a shorthand for Logger().Debug().
func Debug() *zerolog.Event { return Logger().Debug() }

// Warn is a shorthand for Logger().Warn().
func Warn() *zerolog.Event { return Logger().Warn() }

func init() {
	if os.Getenv("SYMB_DEBUG") != "" {
		SetOutput(os.Stderr)
		SetLevel(zerolog.DebugLevel)
	}
}
