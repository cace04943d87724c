package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// setupLogger builds the command logger. Records go to logFile as JSON
// when set and to stderr through a console writer otherwise. Unknown or
// empty levels fall back to info. The returned func closes logFile.
func setupLogger(logFile, logLevel string) (zerolog.Logger, func() error) {
	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	closeFn := func() error { return nil }
	if logFile != "" {
		f, openErr := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", openErr)
		} else {
			logger = zerolog.New(f)
			closeFn = f.Close
		}
	}

	logger = logger.Level(level).With().Timestamp().Logger()
	if err != nil && logLevel != "" {
		logger.Warn().Str("level", logLevel).Msg("Unknown log level, using info")
	}

	return logger, closeFn
}

// sdkLogger adapts a zerolog.Logger to podcastindex.Logger.
type sdkLogger struct {
	logger zerolog.Logger
}

func (l sdkLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
