package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/opened/internal/errors"
)

func TestExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitError", ExitError, 1},
		{"ExitInvalidInput", ExitInvalidInput, 2},
		{"ExitLocked", ExitLocked, 3},
		{"ExitInterrupted", ExitInterrupted, 130},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, tc.code)
		})
	}
}

func TestAddGlobalFlags(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	assert.Equal(t, OutputText, flags.Output)
	assert.False(t, flags.Verbose)
	assert.False(t, flags.Quiet)

	outputFlag := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, OutputText, outputFlag.DefValue)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	quietFlag := cmd.PersistentFlags().Lookup("quiet")
	require.NotNil(t, quietFlag)
	assert.Equal(t, "q", quietFlag.Shorthand)
}

func TestAddGlobalFlags_ParsesCorrectly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		args            []string
		expectedOutput  string
		expectedVerbose bool
		expectedQuiet   bool
		expectError     bool
	}{
		{name: "default values", args: []string{}, expectedOutput: OutputText},
		{name: "output yaml", args: []string{"--output", "yaml"}, expectedOutput: OutputYAML},
		{name: "output shorthand", args: []string{"-o", "json"}, expectedOutput: OutputJSON},
		{name: "verbose shorthand", args: []string{"-v"}, expectedOutput: OutputText, expectedVerbose: true},
		{name: "quiet flag", args: []string{"--quiet"}, expectedOutput: OutputText, expectedQuiet: true},
		{name: "verbose and quiet conflict", args: []string{"-v", "-q"}, expectError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			flags := &GlobalFlags{}
			cmd := &cobra.Command{
				Use: "test",
				RunE: func(_ *cobra.Command, _ []string) error {
					return nil
				},
			}
			AddGlobalFlags(cmd, flags)
			cmd.SetArgs(tc.args)

			err := cmd.Execute()
			if tc.expectError {
				require.Error(t, err)
				assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedOutput, flags.Output)
			assert.Equal(t, tc.expectedVerbose, flags.Verbose)
			assert.Equal(t, tc.expectedQuiet, flags.Quiet)
		})
	}
}

func TestBindGlobalFlags(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	require.NoError(t, BindGlobalFlags(v, cmd))
	require.NoError(t, cmd.PersistentFlags().Set("output", "json"))

	assert.Equal(t, "json", v.GetString("output"))

	resolveGlobalFlags(v, flags)
	assert.Equal(t, OutputJSON, flags.Output)
}

func TestBindGlobalFlags_FromEnvironment(t *testing.T) {
	t.Setenv("OPENED_OUTPUT", "yaml")

	flags := &GlobalFlags{}
	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	require.NoError(t, BindGlobalFlags(v, cmd))
	resolveGlobalFlags(v, flags)

	assert.Equal(t, OutputYAML, flags.Output)
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   string
		expected bool
	}{
		{"text is valid", OutputText, true},
		{"json is valid", OutputJSON, true},
		{"yaml is valid", OutputYAML, true},
		{"xml is invalid", "xml", false},
		{"empty is invalid", "", false},
		{"uppercase JSON is invalid", "JSON", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, IsValidOutputFormat(tc.format))
		})
	}

	assert.Len(t, ValidOutputFormats(), 3)
}

//nolint:err113 // Test cases intentionally use dynamic errors to simulate Cobra error messages
func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{"nil error returns success", nil, ExitSuccess},
		{"locked files", errors.ErrFilesLocked, ExitLocked},
		{"wrapped locked files", errors.Wrapf(errors.ErrFilesLocked, "%d of %d", 1, 2), ExitLocked},
		{"invalid output format", fmt.Errorf("validation failed: %w", errors.ErrInvalidOutputFormat), ExitInvalidInput},
		{"invalid code", errors.ErrInvalidCode, ExitInvalidInput},
		{"exit code 2 error", errors.NewExitCode2Error(errors.ErrInvalidMethod), ExitInvalidInput},
		{"incomplete check", errors.Wrap(errors.ErrCheckIncomplete, "1 of 1"), ExitError},
		{"invalid method from config", errors.ErrInvalidMethod, ExitError},
		{"unknown flag", stderrors.New("unknown flag: --foo"), ExitInvalidInput},
		{"missing arguments", stderrors.New("requires at least 1 arg(s), only received 0"), ExitInvalidInput},
		{"unexpected arguments", stderrors.New(`accepts 0 arg(s), received 1`), ExitInvalidInput},
		{"unknown command", stderrors.New(`unknown command "foo" for "opened"`), ExitInvalidInput},
		{"generic error", stderrors.New("something went wrong"), ExitError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expectedCode, ExitCodeForError(tc.err))
		})
	}
}

func TestIsInvalidInputError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		errMsg   string
		expected bool
	}{
		{"unknown shorthand", "unknown shorthand flag: 'x'", true},
		{"flag needs argument", "flag needs an argument: --output", true},
		{"invalid argument", `invalid argument "x" for "-c, --concurrency"`, true},
		{"mutually exclusive", "if any flags in the group [verbose quiet] are set none of the others can be", true},
		{"required flag", `required flag "--config" not set`, true},
		{"generic error", "something went wrong", false},
		{"empty message", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, isInvalidInputError(tc.errMsg))
		})
	}
}
