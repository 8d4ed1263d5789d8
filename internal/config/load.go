package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/opened/internal/constants"
	"github.com/mrz1836/opened/internal/errors"
)

// Overrides carries CLI flag values. Nil fields are left alone, so a flag
// that was not given never clobbers a configured value.
type Overrides struct {
	Method      *constants.CheckMethod
	Concurrency *int
	Advisory    *bool
	LogFile     *bool
}

// newViperInstance creates a Viper instance with defaults and the OPENED_
// environment layer.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults mirrors DefaultConfig. Keys must match the mapstructure tags.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("probe.concurrency", d.Probe.Concurrency)
	v.SetDefault("probe.method", string(d.Probe.Method))
	v.SetDefault("probe.advisory", d.Probe.Advisory)
	v.SetDefault("lsof.batch_size", d.Lsof.BatchSize)
	v.SetDefault("lsof.timeout", d.Lsof.Timeout.String())
	v.SetDefault("log.file", d.Log.File)
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// Load reads configuration from all available sources with proper precedence.
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	globalPath, err := GlobalConfigPath()
	if err != nil {
		// No home directory; continue with project config and environment only.
		globalPath = ""
	}
	return load(ctx, ProjectConfigPath(), globalPath)
}

// LoadFromPaths loads configuration from specific file paths.
// Either path can be empty to skip that level; a path that does not exist
// is skipped as well.
func LoadFromPaths(ctx context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	return load(ctx, projectConfigPath, globalConfigPath)
}

// LoadWithOverrides loads configuration and applies CLI flag overrides,
// which have the highest precedence.
func LoadWithOverrides(ctx context.Context, overrides *Overrides) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, overrides)
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

func load(ctx context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	// Global config first (lower precedence).
	if err := readConfigFile(v, globalConfigPath, v.ReadInConfig); err != nil {
		return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
	}

	// Project config merges over global.
	if err := readConfigFile(v, projectConfigPath, v.MergeInConfig); err != nil {
		return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Int("probe.concurrency", cfg.Probe.Concurrency).
		Str("probe.method", cfg.Probe.Method.String()).
		Bool("probe.advisory", cfg.Probe.Advisory).
		Int("lsof.batch_size", cfg.Lsof.BatchSize).
		Dur("lsof.timeout", cfg.Lsof.Timeout).
		Msg("configuration loaded")

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// readConfigFile reads path into v with read, skipping empty or missing paths.
func readConfigFile(v *viper.Viper, path string, read func() error) error {
	if path == "" || !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := read(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// unmarshal decodes v into a Config, reporting bad durations distinctly.
func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		if strings.Contains(err.Error(), "time: ") {
			return nil, fmt.Errorf("%w: %w", errors.ErrInvalidDuration, err)
		}
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// viperDecoderOption configures mapstructure to decode durations from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// applyOverrides merges the set override fields into cfg.
func applyOverrides(cfg *Config, overrides *Overrides) {
	if overrides == nil {
		return
	}
	if overrides.Method != nil {
		cfg.Probe.Method = *overrides.Method
	}
	if overrides.Concurrency != nil {
		cfg.Probe.Concurrency = *overrides.Concurrency
	}
	if overrides.Advisory != nil {
		cfg.Probe.Advisory = *overrides.Advisory
	}
	if overrides.LogFile != nil {
		cfg.Log.File = *overrides.LogFile
	}
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
