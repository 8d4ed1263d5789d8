package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/opened/internal/testutil"
)

func TestSafePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain windows path", `C:\Users\dev\report.xlsx`, `C:\Users\dev\report.xlsx`},
		{"plain unix path", "/var/lib/app/data.db", "/var/lib/app/data.db"},
		{"unicode untouched", "/home/dev/résumé 日本.txt", "/home/dev/résumé 日本.txt"},
		{"escape sequence", "/tmp/\x1b[31mred", `/tmp/\x1b[31mred`},
		{"nul byte", "a\x00b", `a\x00b`},
		{"newline escaped", "a\nb", `a\x0ab`},
		{"tab escaped", "a\tb", `a\x09b`},
		{"carriage return", "a\rb", `a\x0db`},
		{"invalid utf8", "bad:\xff", `bad:\xff`},
		{"c1 control", "x\u0085y", `x\x85y`},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, SafePath(tc.input))
		})
	}
}

func TestSanitizeTerminal_KeepsLayout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\tb\nc", SanitizeTerminal("a\tb\nc"))
	assert.Equal(t, `a\x1b[0m`+"\n", SanitizeTerminal("a\x1b[0m\n"))
	assert.Equal(t, `x\x0dy`, SanitizeTerminal("x\ry"))
}

func TestAppendEscapedRune_Widths(t *testing.T) {
	t.Parallel()

	// U+2028 is a format character, not a control, so exercise the encoder directly.
	var b strings.Builder
	for _, r := range []rune{0x1b, 0x2028, 0x1f600} {
		appendEscapedRune(&b, r)
		b.WriteByte(' ')
	}
	assert.Equal(t, `\x1b \u2028 \U0001f600 `, b.String())
}

func TestContainsControl(t *testing.T) {
	t.Parallel()

	assert.False(t, ContainsControl("/srv/data/file.txt"))
	assert.False(t, ContainsControl(""))
	assert.True(t, ContainsControl("a\x07b"))
	assert.True(t, ContainsControl("line\n"))
	assert.True(t, ContainsControl("\xfe"))
}

func TestFilteringWriter_EscapesControls(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fw := NewFilteringWriter(&buf)

	input := []byte(`{"event":"probe","path":"/tmp/` + "\x1b" + `[2J"}` + "\n")
	n, err := fw.Write(input)

	require.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.Equal(t, `{"event":"probe","path":"/tmp/\x1b[2J"}`+"\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, testutil.ErrMockWriteFailed }

func TestFilteringWriter_PropagatesError(t *testing.T) {
	t.Parallel()

	n, err := NewFilteringWriter(failingWriter{}).Write([]byte("entry\n"))
	require.Error(t, err)
	assert.Zero(t, n)
}

func TestControlCharHook(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(NewControlCharHook())

	logger.Info().Msg("clean message")
	assert.NotContains(t, buf.String(), "contains_control_chars")

	buf.Reset()
	logger.Info().Msg("probe \x1b[31m")
	assert.Contains(t, buf.String(), `"contains_control_chars":true`)
}
