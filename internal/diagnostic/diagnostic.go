// Diagnostic reporting for the unwrap pass.
// Rejections are collected as position-tagged diagnostics, kept in source
// order and handed to the host through the Reporter interface.

package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/orizon-lang/unwrap/internal/position"
)

// UnsupportedPosition is the message of every rejected unwrap site.
const UnsupportedPosition = "Unsupported position for unwrap method call"

// CodeUnsupportedPosition identifies UnsupportedPosition diagnostics.
const CodeUnsupportedPosition = "U0001"

// DiagnosticLevel represents the severity level of a diagnostic message.
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
	DiagnosticInfo
	DiagnosticHint
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticInfo:
		return "info"
	case DiagnosticHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Code    string
	Message string
	Span    position.Span
	Level   DiagnosticLevel
}

// String formats the diagnostic as `<position>: <level>: <message>`.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Span.String(), d.Level, d.Message)
}

// Error implements the error interface so a diagnostic can travel in an
// aggregated error.
func (d Diagnostic) Error() string { return d.String() }

// DiagnosticBuilder helps construct diagnostic messages with fluent API.
type DiagnosticBuilder struct {
	diagnostic *Diagnostic
}

// NewDiagnostic creates a new diagnostic builder.
func NewDiagnostic() *DiagnosticBuilder {
	return &DiagnosticBuilder{diagnostic: &Diagnostic{}}
}

func (db *DiagnosticBuilder) Error() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticError

	return db
}

func (db *DiagnosticBuilder) Warning() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticWarning

	return db
}

func (db *DiagnosticBuilder) Code(code string) *DiagnosticBuilder {
	db.diagnostic.Code = code

	return db
}

func (db *DiagnosticBuilder) Message(message string) *DiagnosticBuilder {
	db.diagnostic.Message = message

	return db
}

func (db *DiagnosticBuilder) Span(span position.Span) *DiagnosticBuilder {
	db.diagnostic.Span = span

	return db
}

func (db *DiagnosticBuilder) Build() Diagnostic {
	return *db.diagnostic
}

// Unsupported creates the diagnostic for a site in an illegal position.
func Unsupported(span position.Span) Diagnostic {
	return NewDiagnostic().
		Error().
		Code(CodeUnsupportedPosition).
		Message(UnsupportedPosition).
		Span(span).
		Build()
}

// Reporter receives diagnostics from the pass.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

// Report implements Reporter.
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Sort orders diagnostics by position, errors first at equal positions.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i], l[j]
		if a.Span.Start != b.Span.Start {
			return position.Less(a.Span, b.Span)
		}
		return a.Level < b.Level
	})
}

// HasErrors returns true if any diagnostic is an error.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Level == DiagnosticError {
			return true
		}
	}
	return false
}

// String returns one formatted diagnostic per line.
func (l List) String() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// Err aggregates the diagnostics into one error, or returns nil for an
// empty list.
func (l List) Err() error {
	var result *multierror.Error
	for _, d := range l {
		result = multierror.Append(result, d)
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = func(errs []error) string {
		lines := make([]string, len(errs))
		for i, err := range errs {
			lines[i] = err.Error()
		}
		return strings.Join(lines, "\n")
	}
	return result
}

// Collector is a Reporter that keeps every diagnostic it receives.
type Collector struct {
	diagnostics List
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report implements Reporter.
func (c *Collector) Report(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns the collected diagnostics in source order.
func (c *Collector) Diagnostics() List {
	out := append(List(nil), c.diagnostics...)
	out.Sort()
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int { return len(c.diagnostics) }

// Clear removes all diagnostics.
func (c *Collector) Clear() {
	c.diagnostics = c.diagnostics[:0]
}
