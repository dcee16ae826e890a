package util

import (
	"fmt"
	"strings"
)

// SourceFile represents one named source text. Spans produced by the
// compiler are only meaningful together with the file they were cut from.
type SourceFile struct {
	Content string
	Name    string
}

// NewSourceFile creates a new SourceFile
func NewSourceFile(content, name string) *SourceFile {
	return &SourceFile{
		Content: content,
		Name:    name,
	}
}

// Text returns the slice of the file covered by the given span. Slicing is
// always done against the original content so recorded offsets survive any
// normalization a parser may have applied to its materialized values.
func (f *SourceFile) Text(span Span) string {
	if span.Start < 0 || span.End > len(f.Content) || span.Start > span.End {
		return ""
	}
	return f.Content[span.Start:span.End]
}

// LineCol converts a byte offset into a zero-based line/column pair.
func (f *SourceFile) LineCol(offset int) (line, col int) {
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	prefix := f.Content[:offset]
	line = strings.Count(prefix, "\n")
	if idx := strings.LastIndex(prefix, "\n"); idx >= 0 {
		col = offset - idx - 1
	} else {
		col = offset
	}
	return line, col
}

// Span represents a half-open offset range [Start,End) into one source text.
type Span struct {
	Start int
	End   int
}

// NewSpan creates a new Span
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// Length returns the number of characters covered by the span.
func (s Span) Length() int {
	return s.End - s.Start
}

// Contains reports whether the offset falls inside the half-open range.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// MoveBy shifts both ends of the span by delta characters.
func (s Span) MoveBy(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

// String returns a string representation of the span
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Severity represents the level of a diagnostic
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// Diagnostic represents one problem found while compiling a template. Spans
// always point at the authored markup unless the diagnostic is explicitly
// about a synthesized artifact.
type Diagnostic struct {
	Code     string
	Message  string
	Span     Span
	Severity Severity
}

// NewDiagnostic creates a new Diagnostic
func NewDiagnostic(code, message string, span Span, severity Severity) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Message:  message,
		Span:     span,
		Severity: severity,
	}
}

// String returns a string representation of the diagnostic
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s %s", d.Severity, d.Code, d.Message, d.Span)
}

// DiagnosticSink collects diagnostics produced while deriving an artifact.
// Emission is total: a sink never rejects a diagnostic, and it keeps a count
// per source name so callers can cheaply ask "did this file produce problems".
type DiagnosticSink struct {
	diagnostics []*Diagnostic
	perSource   map[string]int
	source      string
}

// NewDiagnosticSink creates a new DiagnosticSink for the given source name
func NewDiagnosticSink(source string) *DiagnosticSink {
	return &DiagnosticSink{
		perSource: make(map[string]int),
		source:    source,
	}
}

// Report appends a diagnostic and increments the per-source counter.
func (s *DiagnosticSink) Report(code, message string, span Span, severity Severity) {
	s.diagnostics = append(s.diagnostics, NewDiagnostic(code, message, span, severity))
	s.perSource[s.source]++
}

// Diagnostics returns the collected diagnostics in emission order.
func (s *DiagnosticSink) Diagnostics() []*Diagnostic {
	return s.diagnostics
}

// CountFor returns the number of diagnostics recorded against a source name.
func (s *DiagnosticSink) CountFor(source string) int {
	return s.perSource[source]
}
