package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"textrater/pkg/latency"
)

// Display renders the labeling session to a writer, normally stdout
type Display struct {
	out     io.Writer
	styles  styles
	noColor bool
}

// NewDisplay creates a Display writing to out
func NewDisplay(out io.Writer, noColor bool) *Display {
	return &Display{
		out:     out,
		styles:  newStyles(out),
		noColor: noColor,
	}
}

// paint applies style to a short, single-line text
func (d *Display) paint(style lipgloss.Style, text string) string {
	if d.noColor {
		return text
	}
	return style.Render(text)
}

// Progress prints the completion percentage and remaining count
func (d *Display) Progress(completed, total int) {
	percent := 0.0
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}
	line := fmt.Sprintf("Progress: %.2f%% complete, %d remaining", percent, total-completed)
	fmt.Fprintf(d.out, "\n%s\n", d.paint(d.styles.progress, line))
}

// Timing prints the recent average labeling time. The remaining-time estimate
// is shown only once the window is full; nothing is printed for an empty window.
func (d *Display) Timing(w *latency.Window, remaining int) {
	if w.Len() == 0 {
		return
	}

	line := fmt.Sprintf("Average time over the last %d: %.2fs", w.Len(), w.Mean().Seconds())
	if estimate, ok := w.Estimate(remaining); ok {
		line += fmt.Sprintf(", estimated time remaining: %.2fs", estimate.Seconds())
	}
	fmt.Fprintln(d.out, d.paint(d.styles.timing, line))
}

// Record prints the separator and the key, prompt and result of one row
func (d *Display) Record(key, prompt, result string) {
	fmt.Fprintf(d.out, "\n%s\n\n", d.paint(d.styles.separator, "---"))
	fmt.Fprintf(d.out, "%s %s\n", d.paint(d.styles.label, "Key:"), key)
	fmt.Fprintf(d.out, "%s %s\n", d.paint(d.styles.label, "Prompt:"), prompt)
	fmt.Fprintf(d.out, "%s %s\n\n", d.paint(d.styles.label, "Result:"), result)
}

// RatingPrompt asks for a rating without a trailing newline
func (d *Display) RatingPrompt() {
	fmt.Fprint(d.out, d.paint(d.styles.prompt, "Rate this text 1 to 5, or 0 to quit:")+" ")
}

// Echo prints the key that was read
func (d *Display) Echo(key rune) {
	fmt.Fprintf(d.out, "%s\n", printable(key))
}

// InvalidRating tells the user which keys are accepted
func (d *Display) InvalidRating() {
	fmt.Fprintln(d.out, d.paint(d.styles.warning, "Please enter a rating from 1 to 5, or 0 to quit."))
}

// Checkpoint confirms a periodic save
func (d *Display) Checkpoint(position int) {
	fmt.Fprintln(d.out, d.paint(d.styles.success, fmt.Sprintf("Saved after evaluating %d texts.", position)))
}

// Quit confirms the save-and-exit path
func (d *Display) Quit() {
	fmt.Fprintln(d.out, d.paint(d.styles.success, "Progress saved. Exiting."))
}

// Complete confirms the final save
func (d *Display) Complete() {
	fmt.Fprintln(d.out, d.paint(d.styles.success, "All evaluations have been saved to the CSV file."))
}

// PathPrompt asks for the CSV file to label
func (d *Display) PathPrompt() {
	fmt.Fprint(d.out, d.paint(d.styles.prompt, "Enter the path to the CSV file containing the texts to evaluate:")+" ")
}

// FileNotFound reports a path that does not exist
func (d *Display) FileNotFound() {
	fmt.Fprintln(d.out, d.paint(d.styles.err, "The specified file does not exist."))
}

// NotCSV reports a file that cannot be parsed
func (d *Display) NotCSV() {
	fmt.Fprintln(d.out, d.paint(d.styles.err, "The specified file is not in CSV format."))
}

// MissingColumns reports required columns absent from the header
func (d *Display) MissingColumns(columns []string) {
	msg := fmt.Sprintf("The specified file is missing required columns: %s.", strings.Join(columns, ", "))
	fmt.Fprintln(d.out, d.paint(d.styles.err, msg))
}

// Info prints a labelled value
func (d *Display) Info(label, value string) {
	fmt.Fprintf(d.out, "%s %s\n", d.paint(d.styles.label, label+":"), value)
}

// Error prints an error message with an optional cause
func (d *Display) Error(msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	fmt.Fprintln(d.out, d.paint(d.styles.err, msg))
}

// printable renders control characters visibly when echoing raw keys
func printable(key rune) string {
	switch {
	case key == '\r' || key == '\n':
		return "⏎"
	case key < 0x20 || key == 0x7f:
		return fmt.Sprintf("^%c", key^0x40)
	default:
		return string(key)
	}
}
