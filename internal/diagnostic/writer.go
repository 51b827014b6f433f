package diagnostic

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Writer prints diagnostics to a stream, optionally in color.
type Writer struct {
	out      io.Writer
	position *color.Color
	levels   map[DiagnosticLevel]*color.Color
}

// NewWriter returns a writer; colorize enables ANSI colors regardless of
// the terminal state, which callers decide.
func NewWriter(out io.Writer, colorize bool) *Writer {
	w := &Writer{
		out:      out,
		position: color.New(color.Bold),
		levels: map[DiagnosticLevel]*color.Color{
			DiagnosticError:   color.New(color.FgRed, color.Bold),
			DiagnosticWarning: color.New(color.FgYellow, color.Bold),
			DiagnosticInfo:    color.New(color.FgCyan),
			DiagnosticHint:    color.New(color.FgGreen),
		},
	}
	w.position.EnableColor()
	for _, c := range w.levels {
		c.EnableColor()
	}
	if !colorize {
		w.position.DisableColor()
		for _, c := range w.levels {
			c.DisableColor()
		}
	}
	return w
}

// Write prints one diagnostic per line.
func (w *Writer) Write(list List) error {
	for _, d := range list {
		level := w.levels[d.Level]
		if level == nil {
			level = color.New()
		}
		if _, err := fmt.Fprintf(w.out, "%s: %s: %s\n",
			w.position.Sprint(d.Span.String()), level.Sprint(d.Level.String()), d.Message); err != nil {
			return err
		}
	}
	return nil
}

// Summary prints the error count line that ends a failed run.
func (w *Writer) Summary(list List) error {
	if len(list) == 0 {
		return nil
	}
	noun := "errors"
	if len(list) == 1 {
		noun = "error"
	}
	_, err := fmt.Fprintf(w.out, "%d %s\n", len(list), noun)
	return err
}
