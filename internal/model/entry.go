package model

// RawLine is one input record. Text keeps its original line terminator.
type RawLine struct {
	Text   string `json:"text"`
	Source string `json:"source"` // originating file path
}

// Severity is the level token of a structured error entry.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
)

// StructuredEntry is a log line that matched the error grammar.
// Every field is captured verbatim; only Message may be empty.
type StructuredEntry struct {
	Timestamp     string   `json:"timestamp"`
	Context       string   `json:"context"`
	Severity      Severity `json:"severity"`
	ExceptionType string   `json:"exception"`
	Message       string   `json:"message"`
	ReportedFile  string   `json:"file"`
	ReportedLine  int      `json:"line"`
}

// StackFrame is one file:line reference found inside a raw line.
type StackFrame struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Origin is the best guess at where an error really came from.
type Origin struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// TranslationNote explains a likely root cause in plain language.
type TranslationNote struct {
	Rule string `json:"rule"`
	Text string `json:"text"`
}

// DiagnosticReport aggregates everything known about one matched entry.
type DiagnosticReport struct {
	Entry  StructuredEntry   `json:"entry"`
	SQL    string            `json:"sql,omitempty"`
	Origin Origin            `json:"origin"`
	Frames []StackFrame      `json:"frames"`
	Notes  []TranslationNote `json:"translations,omitempty"`
	Raw    string            `json:"-"`
}

// HasSQL reports whether a SQL fragment was recovered for the entry.
func (r *DiagnosticReport) HasSQL() bool {
	return r.SQL != ""
}

// Outcome is the single output unit produced for one input line: either a
// diagnostic report or the raw line to be echoed unchanged.
type Outcome struct {
	Report *DiagnosticReport
	Raw    string
	Source string
}

// Matched reports whether the line produced a diagnostic report.
func (o Outcome) Matched() bool {
	return o.Report != nil
}
