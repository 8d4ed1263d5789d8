package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/opened/internal/config"
	"github.com/mrz1836/opened/internal/constants"
	"github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/lsof"
	"github.com/mrz1836/opened/internal/opened"
	"github.com/mrz1836/opened/internal/probe"
	"github.com/mrz1836/opened/internal/task"
	"github.com/mrz1836/opened/internal/tui"
)

// CheckFlags holds flags specific to the check command.
type CheckFlags struct {
	// Method selects auto, probe or lsof.
	Method string
	// Concurrency bounds how many probes run at once.
	Concurrency int
	// Advisory enables the flock probe on Unix.
	Advisory bool
	// Stats adds scheduler counters to structured output.
	Stats bool
}

// newCheckCmd creates the 'check' command.
func newCheckCmd(global *GlobalFlags) *cobra.Command {
	flags := &CheckFlags{}

	cmd := &cobra.Command{
		Use:   "check PATH...",
		Short: "Report whether files are held open by another process",
		Long: `Report, for each path, whether another process holds it open.

States:
  free     no other process holds the file
  open     another process holds the file
  unknown  this platform cannot tell
  error    the check failed, for example because the file does not exist

Exit status is 3 when any path is open, 1 when any path could not be
checked, and 0 when every path is free.

Examples:
  opened check report.xlsx
  opened check --method lsof /var/log/*.log
  opened check -o json a.txt b.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := checkOverrides(cmd, flags)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), global.Output, flags.Stats, overrides, args)
		},
	}

	cmd.Flags().StringVarP(&flags.Method, "method", "m", "", "check method (auto|probe|lsof)")
	cmd.Flags().IntVarP(&flags.Concurrency, "concurrency", "c", 0, "maximum probes run at once")
	cmd.Flags().BoolVar(&flags.Advisory, "advisory", false, "on Unix, report files with a flock held by another process")
	cmd.Flags().BoolVar(&flags.Stats, "stats", false, "include probe counters in json/yaml output")

	return cmd
}

// AddCheckCommand adds the check command to the root command.
func AddCheckCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newCheckCmd(global))
}

// checkOverrides turns the flags that were given into config overrides.
// Bad values are input errors, unlike the same mistake in a config file.
func checkOverrides(cmd *cobra.Command, flags *CheckFlags) (*config.Overrides, error) {
	overrides := &config.Overrides{}

	if cmd.Flags().Changed("method") {
		method := constants.CheckMethod(flags.Method)
		if !method.IsValid() {
			return nil, errors.NewExitCode2Error(
				errors.Wrapf(errors.ErrInvalidMethod, "--method %q must be one of %v", flags.Method, constants.ValidCheckMethods()))
		}
		overrides.Method = &method
	}
	if cmd.Flags().Changed("concurrency") {
		if flags.Concurrency < 1 || flags.Concurrency > constants.MaxConcurrency {
			return nil, errors.NewExitCode2Error(
				errors.Wrapf(errors.ErrValueOutOfRange, "--concurrency %d must be between 1 and %d", flags.Concurrency, constants.MaxConcurrency))
		}
		overrides.Concurrency = &flags.Concurrency
	}
	if cmd.Flags().Changed("advisory") {
		overrides.Advisory = &flags.Advisory
	}
	return overrides, nil
}

// checkReport is the structured output of check.
type checkReport struct {
	Method  string         `json:"method" yaml:"method"`
	Prober  string         `json:"prober" yaml:"prober"`
	Results []checkResult  `json:"results" yaml:"results"`
	Stats   *task.Snapshot `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// checkResult is one path in a checkReport.
type checkResult struct {
	Path  string              `json:"path" yaml:"path"`
	State constants.FileState `json:"state" yaml:"state"`
	Code  *int                `json:"code,omitempty" yaml:"code,omitempty"`
	Name  string              `json:"name,omitempty" yaml:"name,omitempty"`
	Error string              `json:"error,omitempty" yaml:"error,omitempty"`

	invalid bool
}

func runCheck(ctx context.Context, w io.Writer, format string, stats bool, overrides *config.Overrides, args []string) error {
	logger := zerolog.Ctx(ctx).With().Str("component", "check").Logger()

	cfg, err := config.LoadWithOverrides(ctx, overrides)
	if err != nil {
		return err
	}

	metrics := &task.CountingMetrics{}
	prober := probe.New(probe.Options{Advisory: cfg.Probe.Advisory})
	scheduler := task.NewScheduler(prober,
		task.WithConcurrency(cfg.Probe.Concurrency),
		task.WithLogger(logger),
		task.WithMetrics(metrics),
	)
	defer closeScheduler(scheduler, logger)

	inspector := lsof.New(
		lsof.WithBatchSize(cfg.Lsof.BatchSize),
		lsof.WithTimeout(cfg.Lsof.Timeout),
		lsof.WithLogger(logger),
	)
	checker := opened.New(scheduler,
		opened.WithLister(inspector),
		opened.WithMethod(cfg.Probe.Method),
		opened.WithConcurrency(cfg.Probe.Concurrency),
		opened.WithLogger(logger),
	)

	method := checker.Method()
	logger.Debug().
		Str("method", method.String()).
		Str("prober", prober.Name()).
		Int("paths", len(args)).
		Msg("checking paths")

	results := checker.Report(ctx, absolutePaths(args, checker.ValidatePath))
	if err := ctx.Err(); err != nil {
		return err
	}

	report := checkReport{
		Method:  method.String(),
		Prober:  prober.Name(),
		Results: make([]checkResult, len(results)),
	}
	for i, r := range results {
		report.Results[i] = toCheckResult(args[i], r)
	}
	if stats {
		snap := metrics.Snapshot()
		report.Stats = &snap
	}

	if err := writeCheckReport(w, format, report); err != nil {
		return err
	}
	return checkOutcome(report.Results)
}

// absolutePaths resolves arguments so lsof's resolved names match.
// Arguments that fail validate are kept as typed so the checker rejects them
// by index; resolving first would hide a '/' on Windows.
func absolutePaths(args []string, validate func(idx int, path string) error) []string {
	paths := make([]string, len(args))
	for i, arg := range args {
		paths[i] = arg
		if validate(i, arg) != nil {
			continue
		}
		if abs, err := filepath.Abs(arg); err == nil {
			paths[i] = abs
		}
	}
	return paths
}

// toCheckResult converts a checker result, reporting the path as typed.
func toCheckResult(display string, r opened.Result) checkResult {
	res := checkResult{Path: display}
	switch {
	case r.Err == nil && r.Open:
		res.State = constants.StateOpen
	case r.Err == nil:
		res.State = constants.StateFree
	case stderrors.Is(r.Err, errors.ErrUnsupportedPlatform):
		res.State = constants.StateUnknown
		code := constants.CodeUnsupported
		res.Code = &code
		res.Name = probe.CodeName(code)
	default:
		res.State = constants.StateError
		res.Error = r.Err.Error()
		res.invalid = stderrors.Is(r.Err, errors.ErrInvalidPath)
		if ce, ok := opened.AsCodeError(r.Err); ok {
			code := ce.Code
			res.Code = &code
			res.Name = ce.Name
		}
	}
	return res
}

func writeCheckReport(w io.Writer, format string, report checkReport) error {
	if format != OutputText {
		return tui.NewOutput(w, format).Encode(report)
	}

	rows := make([]tui.ResultRow, len(report.Results))
	for i, r := range report.Results {
		rows[i] = tui.ResultRow{Path: r.Path, State: r.State, Detail: resultDetail(r)}
	}
	tui.CheckNoColor()
	return tui.NewResultTable(rows).Render(w)
}

// resultDetail is the DETAIL column: the code name and number, or the error.
func resultDetail(r checkResult) string {
	switch {
	case r.Code != nil && r.State == constants.StateError:
		return fmt.Sprintf("%s (code %d)", r.Name, *r.Code)
	case r.Code != nil:
		return r.Name
	default:
		return r.Error
	}
}

// checkOutcome turns the results into the command's error. Invalid paths
// come first, then failures, since an unchecked path might be open too.
func checkOutcome(results []checkResult) error {
	open, incomplete, invalid := 0, 0, 0
	for _, r := range results {
		switch r.State {
		case constants.StateOpen:
			open++
		case constants.StateError, constants.StateUnknown:
			incomplete++
		}
		if r.invalid {
			invalid++
		}
	}
	switch {
	case invalid > 0:
		return errors.NewExitCode2Error(errors.Wrapf(errors.ErrInvalidPath, "%d of %d", invalid, len(results)))
	case incomplete > 0:
		return errors.Wrapf(errors.ErrCheckIncomplete, "%d of %d", incomplete, len(results))
	case open > 0:
		return errors.Wrapf(errors.ErrFilesLocked, "%d of %d", open, len(results))
	default:
		return nil
	}
}

// closeScheduler waits for in-flight probes within DefaultCloseTimeout.
func closeScheduler(s *task.Scheduler, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultCloseTimeout)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		logger.Warn().Err(err).Msg("scheduler did not drain")
	}
}
