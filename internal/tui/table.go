package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/mrz1836/opened/internal/constants"
)

// Result table layout.
const (
	// minPathWidth keeps paths readable on very narrow terminals.
	minPathWidth = 16

	// ellipsis marks a truncated cell.
	ellipsis = "…"

	columnGap = 2
)

// ResultRow is one checked path.
type ResultRow struct {
	Path   string
	State  constants.FileState
	Detail string
}

// ResultTableOption configures a ResultTable.
type ResultTableOption func(*ResultTable)

// WithTerminalWidth sets the terminal width instead of detecting it.
// Zero disables truncation.
func WithTerminalWidth(width int) ResultTableOption {
	return func(t *ResultTable) {
		t.width = width
	}
}

// ResultTable renders check results with colored states. Long paths are
// truncated to fit the terminal.
type ResultTable struct {
	rows   []ResultRow
	styles *TableStyles
	width  int
}

// NewResultTable creates a table for rows.
func NewResultTable(rows []ResultRow, opts ...ResultTableOption) *ResultTable {
	t := &ResultTable{
		rows:   rows,
		styles: NewTableStyles(),
		width:  detectTerminalWidth(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// detectTerminalWidth returns stdout's width, or 0 when it is not a terminal.
func detectTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// Headers returns the column headers.
func (t *ResultTable) Headers() []string {
	return []string{"PATH", "STATE", "DETAIL"}
}

// ToTableData returns unstyled headers and rows for Output.Table.
func (t *ResultTable) ToTableData() ([]string, [][]string) {
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rows[i] = []string{r.Path, r.State.String(), r.Detail}
	}
	return t.Headers(), rows
}

// Render writes the styled table to w.
func (t *ResultTable) Render(w io.Writer) error {
	headers := t.Headers()
	plain := make([][]string, len(t.rows))
	for i, r := range t.rows {
		plain[i] = []string{clean(r.Path), StateIcon(r.State) + " " + r.State.String(), clean(r.Detail)}
	}
	widths := columnWidths(headers, plain)
	widths[0] = t.pathBudget(widths)

	parts := make([]string, len(headers))
	for i, h := range headers {
		parts[i] = t.styles.Header.Render(padRight(h, widths[i]))
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " ")); err != nil {
		return err
	}

	for i, r := range t.rows {
		path := truncate(plain[i][0], widths[0])
		state := RenderState(r.State) + strings.Repeat(" ", widths[1]-runewidth.StringWidth(plain[i][1]))
		line := strings.Join([]string{padRight(path, widths[0]), state, plain[i][2]}, "  ")
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// pathBudget shrinks the path column so a row fits the terminal.
func (t *ResultTable) pathBudget(widths []int) int {
	if t.width <= 0 {
		return widths[0]
	}
	rest := 0
	for _, w := range widths[1:] {
		rest += w + columnGap
	}
	budget := t.width - rest
	if budget < minPathWidth {
		budget = minPathWidth
	}
	if budget > widths[0] {
		return widths[0]
	}
	return budget
}

// columnWidths returns the widest display width per column.
func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if cw := runewidth.StringWidth(clean(cell)); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	return widths
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// truncate shortens s to width display cells, marking the cut.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}
