package tui

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	openederrors "github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/logging"
)

// TTYOutput writes styled text for people.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
	table  *TableStyles
}

// NewTTYOutput creates a TTYOutput. It honors NO_COLOR via CheckNoColor.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()

	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
		table:  NewTableStyles(),
	}
}

// Success prints msg with a ✓ icon.
func (o *TTYOutput) Success(msg string) {
	o.line(o.styles.Success.Render("✓ " + clean(msg)))
}

// Error prints err with a ✗ icon. Known errors get a user-facing message
// followed by a dim "▸ Try:" line with the suggested action.
func (o *TTYOutput) Error(err error) {
	msg, action := openederrors.Actionable(err)
	o.line(o.styles.Error.Render("✗ " + clean(msg)))
	if detail := err.Error(); detail != msg {
		o.line(o.styles.Dim.Render("  " + clean(detail)))
	}
	if action != "" {
		o.line(o.styles.Dim.Render("  ▸ Try: " + action))
	}
}

// Warning prints msg with a ⚠ icon.
func (o *TTYOutput) Warning(msg string) {
	o.line(o.styles.Warning.Render("⚠ " + clean(msg)))
}

// Info prints msg with an ℹ icon.
func (o *TTYOutput) Info(msg string) {
	o.line(o.styles.Info.Render("ℹ " + clean(msg)))
}

// Table prints aligned columns. Widths follow display cells, so wide
// runes line up.
func (o *TTYOutput) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	widths := columnWidths(headers, rows)

	parts := make([]string, len(headers))
	for i, h := range headers {
		parts[i] = o.table.Header.Render(padRight(clean(h), widths[i]))
	}
	o.line(strings.TrimRight(strings.Join(parts, "  "), " "))

	for _, row := range rows {
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = clean(row[i])
			}
			parts[i] = o.table.Cell.Render(padRight(cell, widths[i]))
		}
		o.line(strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}

// Encode prints v as YAML, which reads better than JSON in a terminal.
func (o *TTYOutput) Encode(v any) error {
	enc := yaml.NewEncoder(o.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}

func (o *TTYOutput) line(s string) {
	_, _ = fmt.Fprintln(o.w, s)
}

// clean escapes control characters before text is styled.
func clean(s string) string {
	return logging.SafePath(s)
}
