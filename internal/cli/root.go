package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/opened/internal/config"
	"github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger is set in PersistentPreRunE and read through GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger set up by the root command. Before the root
// command runs it returns a zero-value logger that discards output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func setLogger(logger zerolog.Logger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = logger
}

// newRootCmd creates the root command for the opened CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "opened",
		Short: "Check whether files are held open by other processes",
		Long: `opened reports whether files are held open by another process.

On Windows each file is probed by opening it with an exclusive share mode;
a sharing violation means someone else has it open. On Unix, where no
mandatory lock exists, opened asks lsof, or optionally tests flock holders.

Exit codes:
  0  every path is free
  1  an error occurred or a result was inconclusive
  2  invalid input
  3  at least one path is held open`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			resolveGlobalFlags(v, flags)

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			// The log.file setting decides whether the logger opens its file,
			// so configuration is read first. A broken config still gets a
			// logger before the error is reported.
			logFile := true
			cfg, cfgErr := config.Load(cmd.Context())
			if cfgErr == nil {
				logFile = cfg.Log.File
			}

			logger := InitLogger(LoggerOptions{
				Verbose: flags.Verbose,
				Quiet:   flags.Quiet,
				File:    logFile,
			})
			setLogger(logger)
			cmd.SetContext(logger.WithContext(cmd.Context()))

			return cfgErr
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddCheckCommand(cmd, flags)
	AddCodeCommand(cmd, flags)
	AddConfigCommand(cmd, flags)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command and reports any error on stderr in the
// selected output format. ErrFilesLocked is not reported: the results
// already say which paths are open.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(ctx)
	defer CloseLogFile()
	reportError(os.Stderr, flags.Output, err)
	return err
}

// reportError writes err to w unless there is nothing to add.
func reportError(w io.Writer, format string, err error) {
	if err == nil || stderrors.Is(err, errors.ErrFilesLocked) {
		return
	}
	if !IsValidOutputFormat(format) {
		format = OutputText
	}
	tui.NewOutput(w, format).Error(err)
}
