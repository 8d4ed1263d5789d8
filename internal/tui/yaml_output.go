package tui

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLOutput writes one YAML document per call.
type YAMLOutput struct {
	w       io.Writer
	started bool
}

// NewYAMLOutput creates a YAMLOutput.
func NewYAMLOutput(w io.Writer) *YAMLOutput {
	return &YAMLOutput{w: w}
}

// Success writes a success document.
func (o *YAMLOutput) Success(msg string) {
	_ = o.Encode(message{Type: "success", Message: msg})
}

// Error writes the error with its details and suggested action.
func (o *YAMLOutput) Error(err error) {
	_ = o.Encode(newErrorMessage(err))
}

// Warning writes a warning document.
func (o *YAMLOutput) Warning(msg string) {
	_ = o.Encode(message{Type: "warning", Message: msg})
}

// Info writes an info document.
func (o *YAMLOutput) Info(msg string) {
	_ = o.Encode(message{Type: "info", Message: msg})
}

// Table writes a sequence with one mapping per row.
func (o *YAMLOutput) Table(headers []string, rows [][]string) {
	_ = o.Encode(tableRecords(headers, rows))
}

// Encode writes v as a YAML document. Consecutive calls are separated by "---".
func (o *YAMLOutput) Encode(v any) error {
	if o.started {
		if _, err := io.WriteString(o.w, "---\n"); err != nil {
			return err
		}
	}
	o.started = true

	enc := yaml.NewEncoder(o.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
