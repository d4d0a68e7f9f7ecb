package logger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger *zerolog.Logger
)

// Init sets up the package logger. Safe to call more than once; the first
// call wins.
func Init() {
	once.Do(func() {
		l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
		logger = &l
	})
}

// SetOutput replaces the backing logger. Used by tests to capture output.
func SetOutput(l zerolog.Logger) {
	logger = &l
}

func Info(message string, v ...interface{}) {
	if logger == nil {
		Init()
	}
	logger.Info().Msgf(message, v...)
}

func Error(message string, v ...interface{}) {
	if logger == nil {
		Init()
	}
	logger.Error().Msgf(message, v...)
}

func Debug(message string, v ...interface{}) {
	if logger == nil {
		Init()
	}
	logger.Debug().Msgf(message, v...)
}
