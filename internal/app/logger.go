package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgienger/taskvault/internal/config"
)

var globalLogger zerolog.Logger

// Logger returns the process logger
func Logger() zerolog.Logger {
	return globalLogger
}

// InitDefaultLogger sets up a stderr logger used until configuration is read
func InitDefaultLogger() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	zerolog.TimestampFieldName = "timestamp"

	globalLogger = zerolog.New(os.Stderr).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}

// InitApplicationLogger redirects logging to the configured log file, since
// the terminal UI owns stdout. The returned closer releases the file.
func InitApplicationLogger(cfg *config.Config) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	w := io.Writer(f)
	switch cfg.Env {
	case config.EnvDev:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case config.EnvProd:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case config.EnvLocal:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = f
		consoleWriter.NoColor = true
		w = consoleWriter
	default:
		f.Close()
		return nil, fmt.Errorf("unknown env: %s", cfg.Env)
	}

	globalLogger = globalLogger.Output(w).
		With().
		Caller().
		Logger()
	globalLogger.Info().
		Str("env", cfg.Env).
		Msg("initialized application logger")
	return f, nil
}
