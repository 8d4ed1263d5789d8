// Package main provides the entry point for the opened CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/opened/internal/cli"
	"github.com/mrz1836/opened/internal/signal"
)

// Set at build time via -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // Build metadata injected by the linker
var (
	version string
	commit  string
	date    string
)

func main() {
	h := signal.NewHandler(context.Background())

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	code := cli.ExitCodeForError(err)
	if h.WasInterrupted() {
		code = cli.ExitInterrupted
	}

	h.Stop()
	os.Exit(code)
}
