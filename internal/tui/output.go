package tui

import "io"

// Output formats understood by NewOutput.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Output writes command results in one format.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error with its suggested action, if any.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Table prints rows under headers.
	Table(headers []string, rows [][]string)
	// Encode writes v as structured data.
	Encode(v any) error
}

// NewOutput returns the Output for format. Unknown formats fall back to text.
func NewOutput(w io.Writer, format string) Output {
	switch format {
	case FormatJSON:
		return NewJSONOutput(w)
	case FormatYAML:
		return NewYAMLOutput(w)
	default:
		return NewTTYOutput(w)
	}
}

// tableRecords turns a table into one map per row keyed by header.
func tableRecords(headers []string, rows [][]string) []map[string]string {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}
