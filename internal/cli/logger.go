package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/opened/internal/config"
	"github.com/mrz1836/opened/internal/constants"
	"github.com/mrz1836/opened/internal/logging"
)

var (
	logFileWriter   io.WriteCloser //nolint:gochecknoglobals // Closed on shutdown
	logFileWriterMu sync.Mutex     //nolint:gochecknoglobals // Protects logFileWriter
)

// zerologConfigOnce ensures zerolog global settings are configured exactly once.
var zerologConfigOnce sync.Once //nolint:gochecknoglobals // One-time configuration

// zerologGlobalMu protects writes to the zerolog global logger.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// configureZerologGlobals sets the field names used in every log entry.
func configureZerologGlobals() {
	zerologConfigOnce.Do(func() {
		zerolog.TimestampFieldName = "ts"
		zerolog.MessageFieldName = "event"
	})
}

// LoggerOptions controls InitLogger.
type LoggerOptions struct {
	// Verbose selects Debug level.
	Verbose bool
	// Quiet selects Warn level.
	Quiet bool
	// File also writes to the rotating log file under the opened home.
	File bool
}

// InitLogger creates the CLI logger.
//
// Levels: Verbose is Debug, Quiet is Warn, otherwise Info. Console output is
// human-readable on a terminal without NO_COLOR and JSON otherwise. With
// File set, entries also go to ~/.opened/logs/opened.log with rotation.
// If that file cannot be opened the logger continues on the console alone.
func InitLogger(opts LoggerOptions) zerolog.Logger {
	configureZerologGlobals()

	console := selectOutput()
	writer := console
	if opts.File {
		if fileWriter, err := createLogFileWriter(); err == nil {
			setLogFileWriter(fileWriter)
			writer = zerolog.MultiLevelWriter(console, fileWriter)
		}
	}

	logger := buildLogger(writer, selectLevel(opts.Verbose, opts.Quiet))
	setGlobalLogger(logger)
	return logger
}

// InitLoggerWithWriter creates a logger that writes only to w. Used in tests.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	configureZerologGlobals()

	logger := buildLogger(w, selectLevel(verbose, quiet))
	setGlobalLogger(logger)
	return logger
}

func buildLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).Hook(logging.NewControlCharHook()).With().Timestamp().Logger()
}

// setGlobalLogger points the zerolog/log package at the CLI logger.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger
}

func setLogFileWriter(w io.WriteCloser) {
	logFileWriterMu.Lock()
	defer logFileWriterMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
	}
	logFileWriter = w
}

// CloseLogFile closes the log file writer if one was opened.
func CloseLogFile() {
	logFileWriterMu.Lock()
	defer logFileWriterMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the log level from flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput picks the console writer for stderr.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser escapes control characters on the way to a file.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

// Write implements io.Writer.
func (fwc *filteringWriteCloser) Write(p []byte) (int, error) {
	return fwc.filter.Write(p)
}

// Close implements io.Closer.
func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter opens the rotating CLI log file.
func createLogFileWriter() (io.WriteCloser, error) {
	logPath, err := config.LogFilePath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}

	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}
