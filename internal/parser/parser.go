package parser

import (
	"regexp"
	"strconv"

	"github.com/whmcsguru/ExceptionParser/internal/model"
)

// Matcher classifies a raw line as a structured error entry or passthrough.
type Matcher interface {
	Match(raw string) (model.StructuredEntry, bool)
}

// ---------------------------------------------------------------------------
// Error-log grammar
// ---------------------------------------------------------------------------

// entryPattern recognizes lines of the form
//
//	[timestamp] [context] SEVERITY: ExceptionType: message in /path/file.php:123
//
// Only the line start is anchored; anything after the line number is ignored.
var entryPattern = regexp.MustCompile(
	`^\[(.+?)\] \[([^\]]+)\] (ERROR|WARNING|NOTICE): ([^:]+): (.*?) in ([^\s:]+):(\d+)`,
)

// EntryMatcher handles the bracketed PHP/framework error-log format.
type EntryMatcher struct {
	re *regexp.Regexp
}

func NewEntryMatcher() *EntryMatcher {
	return &EntryMatcher{re: entryPattern}
}

// Match extracts the seven entry fields verbatim. It reports false when the
// line does not follow the grammar.
func (m *EntryMatcher) Match(raw string) (model.StructuredEntry, bool) {
	matches := m.re.FindStringSubmatch(raw)
	if matches == nil {
		return model.StructuredEntry{}, false
	}

	line, ok := lineNumber(matches[7])
	if !ok {
		return model.StructuredEntry{}, false
	}

	return model.StructuredEntry{
		Timestamp:     matches[1],
		Context:       matches[2],
		Severity:      model.Severity(matches[3]),
		ExceptionType: matches[4],
		Message:       matches[5],
		ReportedFile:  matches[6],
		ReportedLine:  line,
	}, true
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// lineNumber converts a captured digit run. Runs too large for an int are
// rejected rather than truncated.
func lineNumber(digits string) (int, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
