// Package tui renders opened's command output.
//
// Text output is styled with Lip Gloss using adaptive colors so it reads on
// light and dark terminals. Every state is shown with an icon, a color and a
// word, so nothing depends on color alone.
//
// Call CheckNoColor before rendering to honor NO_COLOR and TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/opened/internal/constants"
)

//nolint:gochecknoglobals // Package-level styling API
var (
	// ColorPrimary is blue, used for headers and paths.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for free files.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for open files and inconclusive results.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failed checks.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies faint formatting.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// OutputStyles holds the message styles used by TTYOutput.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles returns the default message styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Error:   lipgloss.NewStyle().Foreground(ColorError),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// TableStyles holds the styles for tabular output.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
}

// NewTableStyles returns the default table styles.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Cell:   lipgloss.NewStyle(),
	}
}

// CheckNoColor disables colors when the environment asks for it.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport reports whether colored output is allowed.
// NO_COLOR disables color whenever it is set, even to an empty value.
// See https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// StateColor returns the color for a file state.
func StateColor(state constants.FileState) lipgloss.AdaptiveColor {
	switch state {
	case constants.StateFree:
		return ColorSuccess
	case constants.StateOpen, constants.StateUnknown:
		return ColorWarning
	case constants.StateError:
		return ColorError
	default:
		return ColorMuted
	}
}

// StateIcon returns the icon for a file state.
func StateIcon(state constants.FileState) string {
	switch state {
	case constants.StateFree:
		return "✓"
	case constants.StateOpen:
		return "●"
	case constants.StateUnknown:
		return "?"
	case constants.StateError:
		return "✗"
	default:
		return "·"
	}
}

// RenderState renders a state as icon plus word in its color.
func RenderState(state constants.FileState) string {
	return lipgloss.NewStyle().Foreground(StateColor(state)).Render(StateIcon(state) + " " + state.String())
}
