package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/opened/internal/config"
	"github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/probe"
	"github.com/mrz1836/opened/internal/tui"
)

// codeMeanings describes the symbolic names a probe can report.
//
//nolint:gochecknoglobals // Static lookup table
var codeMeanings = map[string]string{
	"OK":                      "not held open by another process",
	"ENOTSUP":                 "this platform cannot tell; the result is inconclusive",
	"EDISPATCH":               "the probe could not be started",
	"ERROR_SHARING_VIOLATION": "held open by another process",
	"ERROR_LOCK_VIOLATION":    "part of the file is locked by another process",
	"EWOULDBLOCK":             "an advisory lock is held by another process",
	"EAGAIN":                  "an advisory lock is held by another process",
	"ENOENT":                  "the file or a parent directory does not exist",
	"EPERM":                   "access denied",
	"EACCES":                  "access denied",
	"EISDIR":                  "the path is a directory",
	"EMFILE":                  "too many open files in this process",
	"EBADF":                   "invalid handle",
	"ENOMEM":                  "out of memory",
	"EINVAL":                  "the path syntax is invalid",
	"EILSEQ":                  "the path could not be converted to the platform encoding",
	"ENOSYS":                  "unrecognized code",
}

// codeRow is the structured form of one explained code.
type codeRow struct {
	Code    int    `json:"code" yaml:"code"`
	Name    string `json:"name" yaml:"name"`
	Meaning string `json:"meaning" yaml:"meaning"`
}

// newCodeCmd creates the 'code' command.
func newCodeCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "code CODE...",
		Short: "Explain result codes reported by check",
		Long: `Explain the numeric result codes shown by 'opened check'.

Codes are interpreted for the probe this platform uses: Windows system
error codes, or errno values when the advisory probe is enabled on Unix.
Negative codes are opened's own: -1 unsupported, -2 dispatch failure.

Examples:
  opened code 32
  opened code -- -1 2 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCode(cmd.Context(), cmd.OutOrStdout(), global.Output, args)
		},
	}
}

// AddCodeCommand adds the code command to the root command.
func AddCodeCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newCodeCmd(global))
}

func runCode(ctx context.Context, w io.Writer, format string, args []string) error {
	codes := make([]int, len(args))
	for i, arg := range args {
		code, err := strconv.Atoi(arg)
		if err != nil {
			return errors.NewExitCode2Error(errors.Wrapf(errors.ErrInvalidCode, "%q", arg))
		}
		codes[i] = code
	}

	advisory := false
	if cfg, err := config.Load(ctx); err == nil {
		advisory = cfg.Probe.Advisory
	}
	prober := probe.New(probe.Options{Advisory: advisory})

	rows := explainCodes(prober, codes)

	out := tui.NewOutput(w, format)
	if format != OutputText {
		return out.Encode(rows)
	}

	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{strconv.Itoa(r.Code), r.Name, r.Meaning}
	}
	out.Table([]string{"CODE", "NAME", "MEANING"}, table)
	return nil
}

// explainCodes names each code as prober would and describes it.
func explainCodes(prober probe.Prober, codes []int) []codeRow {
	rows := make([]codeRow, len(codes))
	for i, code := range codes {
		name := probe.NameFor(prober, code)
		meaning, ok := codeMeanings[name]
		if !ok {
			meaning = "platform error"
		}
		rows[i] = codeRow{Code: code, Name: name, Meaning: meaning}
	}
	return rows
}
