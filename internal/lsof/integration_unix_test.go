//go:build unix

package lsof

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openederrors "github.com/mrz1836/opened/internal/errors"
)

func requireLsof(t *testing.T) *Inspector {
	t.Helper()
	insp := New()
	if !insp.Available() {
		t.Skip("lsof not installed")
	}
	return insp
}

func resolvedTempDir(t *testing.T) string {
	t.Helper()
	// lsof reports resolved names; macOS TempDir lives behind a symlink.
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestIntegration_OpenAndClosedFiles(t *testing.T) {
	insp := requireLsof(t)
	dir := resolvedTempDir(t)

	held := filepath.Join(dir, "held.txt")
	free := filepath.Join(dir, "free.txt")
	require.NoError(t, os.WriteFile(held, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(free, []byte("x"), 0o600))

	f, err := os.Open(held) //#nosec G304 -- test fixture
	require.NoError(t, err)

	files, err := insp.Open(context.Background(), []string{held, free})
	require.NoError(t, err)
	assert.True(t, files[held])
	assert.False(t, files[free])

	require.NoError(t, f.Close())

	files, err = insp.Open(context.Background(), []string{held})
	require.NoError(t, err)
	assert.False(t, files[held])
}

func TestIntegration_MissingFile(t *testing.T) {
	insp := requireLsof(t)
	dir := resolvedTempDir(t)

	_, err := insp.Open(context.Background(), []string{filepath.Join(dir, "absent")})
	require.ErrorIs(t, err, openederrors.ErrFileNotFound)
}

func TestIntegration_NoShellInterpretation(t *testing.T) {
	insp := requireLsof(t)
	dir := resolvedTempDir(t)

	// A shell would create the marker in the working directory.
	const marker = "opened-injected"
	hostile := filepath.Join(dir, `q"; touch `+marker+`; echo "`)
	require.NoError(t, os.WriteFile(hostile, []byte("x"), 0o600))

	files, err := insp.Open(context.Background(), []string{hostile})
	require.NoError(t, err)
	assert.False(t, files[hostile])

	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "path must not be run through a shell")
}
