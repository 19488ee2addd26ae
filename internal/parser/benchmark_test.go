package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/whmcsguru/ExceptionParser/internal/model"
)

// BenchmarkEntryMatcher measures matching throughput on a structured line.
func BenchmarkEntryMatcher(b *testing.B) {
	m := NewEntryMatcher()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Match(pdoLine)
	}
}

// BenchmarkEntryMatcherPassthrough measures the cost of rejecting plain lines.
func BenchmarkEntryMatcherPassthrough(b *testing.B) {
	m := NewEntryMatcher()
	line := "2026-02-17T12:00:00Z worker started, waiting for jobs\n"

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Match(line)
	}
}

// BenchmarkEntryMatcherWhitespace feeds long whitespace runs that would hurt
// a backtracking engine.
func BenchmarkEntryMatcherWhitespace(b *testing.B) {
	m := NewEntryMatcher()
	line := "[t] [app] ERROR: Exception: " + strings.Repeat(" in ", 2000) + "\n"

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Match(line)
	}
}

// BenchmarkExtractFrames measures trace scanning over a deep stack.
func BenchmarkExtractFrames(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("[t] [app] ERROR: Exception: boom in /a/x.php:1 Stack trace:")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, " #%d /src/f%d.php(%d): call() in /src/g%d.php:%d", i, i, i, i, i+1)
	}
	line := sb.String()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ExtractFrames(line)
		ResolveOrigin(model.StructuredEntry{}, line)
	}
}
