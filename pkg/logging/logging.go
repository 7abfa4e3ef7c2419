// Package logging configures zerolog for twitchmotes.
//
// Output goes to a console writer on stderr and, when it can be created, an
// append-only file under the XDG state home. Packages ask for a component
// logger with GetLogger after SetupLogger has run.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// EnvVerbosity selects the log level (0-3), since the CLI takes no flags
	EnvVerbosity = "TWITCHMOTES_VERBOSITY"

	// DefaultVerbosity is used when EnvVerbosity is unset or malformed
	DefaultVerbosity = 1

	appDir  = "twitchmotes"
	logName = "twitchmotes.log"
)

// VerbosityFromEnv reads the verbosity level from the environment
func VerbosityFromEnv() int {
	raw := os.Getenv(EnvVerbosity)
	if raw == "" {
		return DefaultVerbosity
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return DefaultVerbosity
	}
	return v
}

// levelFor maps verbosity to a level: 0 warn, 1 info, 2 debug, 3+ trace
func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger and returns the log file path.
// When the file cannot be opened, logging continues on the console only.
func SetupLogger(verbosity int) string {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	fd := os.Stderr.Fd()
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd),
	}}

	logPath := logFilePath()
	file, fileErr := openLogFile(logPath)
	if fileErr == nil {
		writers = append(writers, file)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logPath).Msg("Failed to create log file, logging to console only")
		logPath = ""
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", logPath).Msg("Logger initialized")
	return logPath
}

// GetLogger returns a logger tagged with the component name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// logFilePath honours XDG_STATE_HOME, falling back to the platform state dir
func logFilePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = xdg.StateHome
	}
	if stateHome == "" {
		return logName
	}
	return filepath.Join(stateHome, appDir, logName)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
