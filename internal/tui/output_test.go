package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	openederrors "github.com/mrz1836/opened/internal/errors"
)

func TestNewOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, FormatJSON))
	assert.IsType(t, &YAMLOutput{}, NewOutput(&buf, FormatYAML))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, FormatText))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, "bogus"))
}

func TestTTYOutput_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		write func(Output)
		icon  string
		text  string
	}{
		{"success", func(o Output) { o.Success("all free") }, "✓", "all free"},
		{"warning", func(o Output) { o.Warning("inconclusive") }, "⚠", "inconclusive"},
		{"info", func(o Output) { o.Info("using lsof") }, "ℹ", "using lsof"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tc.write(NewTTYOutput(&buf))
			assert.Contains(t, buf.String(), tc.icon)
			assert.Contains(t, buf.String(), tc.text)
		})
	}
}

func TestTTYOutput_Error(t *testing.T) {
	t.Parallel()

	t.Run("known error shows message detail and action", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		err := fmt.Errorf("opened(/tmp/x): %w", openederrors.ErrFileNotFound)
		NewTTYOutput(&buf).Error(err)

		out := buf.String()
		assert.Contains(t, out, "✗ The file does not exist.")
		assert.Contains(t, out, "opened(/tmp/x): file not found")
		assert.Contains(t, out, "▸ Try:")
	})

	t.Run("unknown error prints once", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewTTYOutput(&buf).Error(fmt.Errorf("boom")) //nolint:err113 // test error
		assert.Equal(t, 1, strings.Count(buf.String(), "boom"))
		assert.NotContains(t, buf.String(), "Try:")
	})
}

func TestTTYOutput_EscapesControlCharacters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewTTYOutput(&buf).Info("evil\x1b[2Jname")
	assert.NotContains(t, buf.String(), "\x1b[2J")
	assert.Contains(t, buf.String(), `evil\x1b[2Jname`)
}

func TestTTYOutput_Table(t *testing.T) {
	t.Parallel()

	t.Run("aligns columns", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewTTYOutput(&buf).Table([]string{"NAME", "VALUE"}, [][]string{
			{"short", "1"},
			{"a-much-longer-name", "2"},
		})

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, strings.Index(lines[1], "1"), strings.Index(lines[2], "2"))
	})

	t.Run("short rows are padded", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewTTYOutput(&buf).Table([]string{"A", "B"}, [][]string{{"only"}})
		assert.Contains(t, buf.String(), "only")
	})

	t.Run("no headers prints nothing", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewTTYOutput(&buf).Table(nil, [][]string{{"x"}})
		assert.Empty(t, buf.String())
	})
}

func TestTTYOutput_Encode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewTTYOutput(&buf).Encode(map[string]int{"concurrency": 4}))
	assert.Equal(t, "concurrency: 4\n", buf.String())
}

func TestJSONOutput_Messages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	out.Success("done")
	out.Warning("careful")
	out.Info("fyi")

	dec := json.NewDecoder(&buf)
	for _, want := range []message{
		{Type: "success", Message: "done"},
		{Type: "warning", Message: "careful"},
		{Type: "info", Message: "fyi"},
	} {
		var got message
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, want, got)
	}
}

func TestJSONOutput_Error(t *testing.T) {
	t.Parallel()

	t.Run("known error", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewJSONOutput(&buf).Error(openederrors.Wrap(openederrors.ErrLsofNotInstalled, "lsof method"))

		var got errorMessage
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "error", got.Type)
		assert.Equal(t, "lsof method: lsof not installed", got.Message)
		assert.Equal(t, "lsof is not installed.", got.Details)
		assert.Contains(t, got.Suggestion, "--method probe")
	})

	t.Run("unknown wrapped error uses inner message", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		inner := fmt.Errorf("inner") //nolint:err113 // test error
		NewJSONOutput(&buf).Error(fmt.Errorf("outer: %w", inner))

		var got errorMessage
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "outer: inner", got.Message)
		assert.Equal(t, "inner", got.Details)
		assert.Empty(t, got.Suggestion)
	})
}

func TestJSONOutput_Table(t *testing.T) {
	t.Parallel()

	t.Run("rows become objects", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewJSONOutput(&buf).Table([]string{"path", "state"}, [][]string{
			{"/a", "open"},
			{"/b"},
		})

		var got []map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, []map[string]string{
			{"path": "/a", "state": "open"},
			{"path": "/b", "state": ""},
		}, got)
	})

	t.Run("no rows is an empty array", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewJSONOutput(&buf).Table([]string{"path"}, nil)
		assert.JSONEq(t, "[]", buf.String())
	})
}

func TestJSONOutput_DoesNotEscapeHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewJSONOutput(&buf).Encode(map[string]string{"path": "a<b>&c"}))
	assert.Contains(t, buf.String(), "a<b>&c")
}

func TestYAMLOutput(t *testing.T) {
	t.Parallel()

	t.Run("documents are separated", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		out := NewYAMLOutput(&buf)
		out.Info("first")
		out.Warning("second")

		dec := yaml.NewDecoder(&buf)
		var first, second message
		require.NoError(t, dec.Decode(&first))
		require.NoError(t, dec.Decode(&second))
		assert.Equal(t, message{Type: "info", Message: "first"}, first)
		assert.Equal(t, message{Type: "warning", Message: "second"}, second)
	})

	t.Run("error carries suggestion", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewYAMLOutput(&buf).Error(openederrors.ErrInvalidCode)

		var got errorMessage
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "invalid error code", got.Message)
		assert.NotEmpty(t, got.Suggestion)
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewYAMLOutput(&buf).Table([]string{"path"}, [][]string{{"/a"}})

		var got []map[string]string
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, []map[string]string{{"path": "/a"}}, got)
	})
}
