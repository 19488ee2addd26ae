package parser

import (
	"regexp"

	"github.com/whmcsguru/ExceptionParser/internal/model"
)

var (
	// Numbered trace frame: #3 /path/Kernel.php(120): App\Foo->bar() in /path/Foo.php:42
	traceFramePattern = regexp.MustCompile(`#\d+ (?:.+?)\((\d+)\): (?:.+?) in (.+?):(\d+)`)

	// Any "in file:line" reference.
	fileLinePattern = regexp.MustCompile(`in ([^\s:]+):(\d+)`)
)

// ExtractFrames returns every "in file:line" reference in raw, left to right.
// The result is empty when raw holds none.
func ExtractFrames(raw string) []model.StackFrame {
	var frames []model.StackFrame
	for _, m := range fileLinePattern.FindAllStringSubmatch(raw, -1) {
		line, ok := lineNumber(m[2])
		if !ok {
			continue
		}
		frames = append(frames, model.StackFrame{File: m[1], Line: line})
	}
	return frames
}

// ResolveOrigin picks the most likely true source of the error. The last
// numbered trace frame wins; without one, the last "in file:line" reference
// wins; without either, the entry's reported location is used.
func ResolveOrigin(entry model.StructuredEntry, raw string) model.Origin {
	origin := model.Origin{File: entry.ReportedFile, Line: entry.ReportedLine}

	if m := lastMatch(traceFramePattern, raw); m != nil {
		if line, ok := lineNumber(m[3]); ok {
			origin = model.Origin{File: m[2], Line: line}
		}
		return origin
	}

	if m := lastMatch(fileLinePattern, raw); m != nil {
		if line, ok := lineNumber(m[2]); ok {
			origin = model.Origin{File: m[1], Line: line}
		}
	}
	return origin
}

// lastMatch returns the submatches of the final non-overlapping match.
func lastMatch(re *regexp.Regexp, s string) []string {
	all := re.FindAllStringSubmatch(s, -1)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}
