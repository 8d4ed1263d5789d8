package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/opened/internal/constants"
	"github.com/mrz1836/opened/internal/errors"
)

// HomeDir returns the opened home directory.
// OPENED_HOME takes precedence; otherwise it is ~/.opened.
func HomeDir() (string, error) {
	if dir := os.Getenv(constants.EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.OpenedHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.opened/config.yaml on Unix systems.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .opened/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(constants.OpenedHome, constants.ConfigFileName)
}

// LogFilePath returns the path to the rotating CLI log file.
func LogFilePath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir, constants.CLILogFileName), nil
}
