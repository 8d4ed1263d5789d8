// Package cli provides the command-line interface for opened.
package cli

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/opened/internal/constants"
	"github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/tui"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution and, for check, that no path is open.
	ExitSuccess = 0
	// ExitError indicates a general error.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input.
	ExitInvalidInput = 2
	// ExitLocked indicates at least one checked path is held open.
	ExitLocked = 3
	// ExitInterrupted indicates the run was stopped by SIGINT or SIGTERM.
	ExitInterrupted = 130
)

// Output format constants.
const (
	// OutputText is the default human-readable output format.
	OutputText = tui.FormatText
	// OutputJSON is the machine-readable JSON output format.
	OutputJSON = tui.FormatJSON
	// OutputYAML is the machine-readable YAML output format.
	OutputYAML = tui.FormatYAML
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text, json or yaml).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
}

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper so they can also come from
// OPENED_OUTPUT, OPENED_VERBOSE and OPENED_QUIET.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	// Root flags must be looked up on the root even from a subcommand.
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	return nil
}

// resolveGlobalFlags copies bound values back so environment settings apply
// when the flag itself was not given.
func resolveGlobalFlags(v *viper.Viper, flags *GlobalFlags) {
	flags.Output = v.GetString("output")
	flags.Verbose = v.GetBool("verbose")
	flags.Quiet = v.GetBool("quiet")
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON, OutputYAML}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// ExitCodeForError returns the process exit code for err.
//
// ErrFilesLocked maps to ExitLocked so scripts can tell "held open" apart
// from failures. Bad flags, arguments and paths map to ExitInvalidInput.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if stderrors.Is(err, errors.ErrFilesLocked) {
		return ExitLocked
	}

	if errors.IsExitCode2Error(err) {
		return ExitInvalidInput
	}

	for _, invalid := range []error{
		errors.ErrInvalidOutputFormat,
		errors.ErrInvalidCode,
	} {
		if stderrors.Is(err, invalid) {
			return ExitInvalidInput
		}
	}

	// Cobra's own flag and argument validation errors.
	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}

	return ExitError
}

// isInvalidInputError checks if an error message indicates invalid user input.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"requires at least",
		"accepts ",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
