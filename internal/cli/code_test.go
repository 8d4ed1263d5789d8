package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/probe"
)

// errnoNamer names codes like the advisory probe does.
type errnoNamer struct {
	probe.UnsupportedProbe
}

func (errnoNamer) CodeName(code int) string {
	if code == 11 {
		return "EAGAIN"
	}
	return "ENOSYS"
}

func TestExplainCodes(t *testing.T) {
	t.Parallel()

	rows := explainCodes(probe.UnsupportedProbe{}, []int{32, 2, -1, -2, 0, 9999})
	require.Len(t, rows, 6)

	expected := []codeRow{
		{Code: 32, Name: "ERROR_SHARING_VIOLATION", Meaning: "held open by another process"},
		{Code: 2, Name: "ENOENT", Meaning: "the file or a parent directory does not exist"},
		{Code: -1, Name: "ENOTSUP", Meaning: "this platform cannot tell; the result is inconclusive"},
		{Code: -2, Name: "EDISPATCH", Meaning: "the probe could not be started"},
		{Code: 0, Name: "OK", Meaning: "not held open by another process"},
		{Code: 9999, Name: "ENOSYS", Meaning: "unrecognized code"},
	}
	assert.Equal(t, expected, rows)
}

func TestExplainCodes_UsesProberNames(t *testing.T) {
	t.Parallel()

	rows := explainCodes(errnoNamer{}, []int{11})
	require.Len(t, rows, 1)
	assert.Equal(t, "EAGAIN", rows[0].Name)
	assert.Equal(t, "an advisory lock is held by another process", rows[0].Meaning)
}

func TestCodeMeanings_CoverProbeNames(t *testing.T) {
	t.Parallel()

	for _, code := range []int{-2, -1, 0, 1, 2, 3, 4, 5, 6, 8, 14, 15, 32, 33, 123, 1113} {
		name := probe.CodeName(code)
		assert.Contains(t, codeMeanings, name, "code %d (%s) has no meaning", code, name)
	}
}

func TestRunCode_InvalidCode(t *testing.T) {
	t.Setenv("OPENED_HOME", t.TempDir())

	var buf bytes.Buffer
	err := runCode(context.Background(), &buf, OutputText, []string{"32", "abc"})

	require.ErrorIs(t, err, errors.ErrInvalidCode)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	assert.Empty(t, buf.String())
}

func TestRunCode_Text(t *testing.T) {
	t.Setenv("OPENED_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	require.NoError(t, runCode(context.Background(), &buf, OutputText, []string{"32", "-1"}))

	out := buf.String()
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "MEANING")
	assert.Contains(t, out, "ERROR_SHARING_VIOLATION")
	assert.Contains(t, out, "ENOTSUP")
}

func TestRunCode_JSON(t *testing.T) {
	t.Setenv("OPENED_HOME", t.TempDir())

	var buf bytes.Buffer
	require.NoError(t, runCode(context.Background(), &buf, OutputJSON, []string{"-2"}))

	var rows []codeRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "EDISPATCH", rows[0].Name)
}
