package tui

import (
	"encoding/json"
	"errors"
	"io"

	openederrors "github.com/mrz1836/opened/internal/errors"
)

// JSONOutput writes one JSON document per call, for scripts.
type JSONOutput struct {
	encoder *json.Encoder
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONOutput{encoder: enc}
}

// message is the structured form of Success, Warning and Info.
type message struct {
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
}

// errorMessage is the structured form of Error.
type errorMessage struct {
	Type       string `json:"type" yaml:"type"`
	Message    string `json:"message" yaml:"message"`
	Details    string `json:"details,omitempty" yaml:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

func newErrorMessage(err error) errorMessage {
	msg, action := openederrors.Actionable(err)
	em := errorMessage{
		Type:       "error",
		Message:    err.Error(),
		Suggestion: action,
	}
	if msg != em.Message {
		em.Details = msg
	} else if inner := errors.Unwrap(err); inner != nil {
		em.Details = inner.Error()
	}
	return em
}

// Success writes {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) {
	//nolint:errchkjson // Interface method has no error return
	_ = o.encoder.Encode(message{Type: "success", Message: msg})
}

// Error writes the error with its details and suggested action.
func (o *JSONOutput) Error(err error) {
	//nolint:errchkjson // Interface method has no error return
	_ = o.encoder.Encode(newErrorMessage(err))
}

// Warning writes {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) {
	//nolint:errchkjson // Interface method has no error return
	_ = o.encoder.Encode(message{Type: "warning", Message: msg})
}

// Info writes {"type":"info","message":...}.
func (o *JSONOutput) Info(msg string) {
	//nolint:errchkjson // Interface method has no error return
	_ = o.encoder.Encode(message{Type: "info", Message: msg})
}

// Table writes an array with one object per row.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	//nolint:errchkjson // Interface method has no error return
	_ = o.encoder.Encode(tableRecords(headers, rows))
}

// Encode writes v as JSON.
func (o *JSONOutput) Encode(v any) error {
	return o.encoder.Encode(v)
}
