package internal

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// logger is shared by every package; commands adjust it before running
var logger = newLogger(os.Stderr)

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "flux",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           log.InfoLevel,
	})
}

// Logger returns the shared logger for structured key/value logging
func Logger() *log.Logger {
	return logger
}

// SetLogLevel sets the minimum level by name: debug, info, warn or error
func SetLogLevel(name string) error {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	return nil
}

// SetVerbose switches between debug and info logging
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return
	}
	logger.SetLevel(log.InfoLevel)
}

// SetLogOutput moves log output, e.g. off the terminal while the TUI owns
// it. A nil writer restores stderr.
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logger.SetOutput(w)
}

func LogError(format string, args ...interface{}) { logger.Errorf(format, args...) }

func LogWarn(format string, args ...interface{}) { logger.Warnf(format, args...) }

func LogInfo(format string, args ...interface{}) { logger.Infof(format, args...) }

func LogDebug(format string, args ...interface{}) { logger.Debugf(format, args...) }
