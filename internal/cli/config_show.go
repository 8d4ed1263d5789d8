package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/opened/internal/config"
	"github.com/mrz1836/opened/internal/constants"
	"github.com/mrz1836/opened/internal/tui"
)

// newConfigCmd creates the 'config' parent command.
func newConfigCmd(global *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect opened configuration",
	}
	cmd.AddCommand(newConfigShowCmd(global))
	return cmd
}

// AddConfigCommand adds the config command to the root command.
func AddConfigCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newConfigCmd(global))
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration and where each value comes from:
  default  built-in default
  global   ~/.opened/config.yaml
  project  .opened/config.yaml
  env      OPENED_* environment variable

Examples:
  opened config show
  opened config show -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), global.Output)
		},
	}
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceGlobal indicates the value came from global config.
	SourceGlobal ConfigSource = "global"
	// SourceProject indicates the value came from project config.
	SourceProject ConfigSource = "project"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
)

// ConfigValueWithSource is one configuration value and its origin.
type ConfigValueWithSource struct {
	Value  any          `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// AnnotatedConfig maps section to key to annotated value.
type AnnotatedConfig map[string]map[string]ConfigValueWithSource

// runConfigShow executes the config show command.
func runConfigShow(ctx context.Context, w io.Writer, format string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	globalPath, _ := config.GlobalConfigPath()
	annotated := buildAnnotatedConfig(cfg, loadConfigFile(globalPath), loadConfigFile(config.ProjectConfigPath()))

	if format == OutputText {
		renderAnnotatedConfig(w, annotated)
		return nil
	}
	return tui.NewOutput(w, format).Encode(annotated)
}

// buildAnnotatedConfig pairs every effective value with its source.
func buildAnnotatedConfig(cfg *config.Config, globalCfg, projectCfg configValues) AnnotatedConfig {
	entry := func(key string, value any) ConfigValueWithSource {
		return ConfigValueWithSource{Value: value, Source: determineSource(key, globalCfg, projectCfg)}
	}

	return AnnotatedConfig{
		"probe": {
			"concurrency": entry("probe.concurrency", cfg.Probe.Concurrency),
			"method":      entry("probe.method", cfg.Probe.Method.String()),
			"advisory":    entry("probe.advisory", cfg.Probe.Advisory),
		},
		"lsof": {
			"batch_size": entry("lsof.batch_size", cfg.Lsof.BatchSize),
			"timeout":    entry("lsof.timeout", cfg.Lsof.Timeout.String()),
		},
		"log": {
			"file": entry("log.file", cfg.Log.File),
		},
	}
}

// determineSource finds the highest-precedence layer that sets key.
func determineSource(key string, globalCfg, projectCfg configValues) ConfigSource {
	envKey := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if _, ok := os.LookupEnv(envKey); ok {
		return SourceEnv
	}
	if _, ok := projectCfg[key]; ok {
		return SourceProject
	}
	if _, ok := globalCfg[key]; ok {
		return SourceGlobal
	}
	return SourceDefault
}

// configValues holds the dotted keys a config file sets.
type configValues map[string]any

// loadConfigFile reads the keys set in a config file. Missing or unreadable
// files contribute nothing; config.Load has already reported real errors.
func loadConfigFile(path string) configValues {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- config file path
	if err != nil {
		return nil
	}

	var sections map[string]map[string]any
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil
	}

	values := make(configValues)
	for section, keys := range sections {
		for key, value := range keys {
			values[section+"."+key] = value
		}
	}
	return values
}

// renderAnnotatedConfig prints sections in a fixed order with colored sources.
func renderAnnotatedConfig(w io.Writer, annotated AnnotatedConfig) {
	tui.CheckNoColor()

	section := tui.StyleBold.Foreground(tui.ColorPrimary)
	key := lipgloss.NewStyle().Foreground(tui.ColorPrimary)

	for _, name := range []string{"probe", "lsof", "log"} {
		values := annotated[name]
		_, _ = fmt.Fprintln(w, section.Render(name+":"))

		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			v := values[k]
			_, _ = fmt.Fprintf(w, "  %s %v  %s\n",
				key.Render(k+":"), v.Value, sourceStyle(v.Source).Render("("+string(v.Source)+")"))
		}
	}
}

func sourceStyle(source ConfigSource) lipgloss.Style {
	switch source {
	case SourceEnv:
		return lipgloss.NewStyle().Foreground(tui.ColorError)
	case SourceProject:
		return lipgloss.NewStyle().Foreground(tui.ColorWarning)
	case SourceGlobal:
		return lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	default:
		return tui.StyleDim
	}
}
