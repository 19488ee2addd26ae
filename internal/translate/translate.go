// Package translate turns known error messages into plain-language
// explanations of their likely root cause.
package translate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/whmcsguru/ExceptionParser/internal/model"
)

// Rule inspects an entry message and optionally yields one note.
type Rule struct {
	Name  string
	Apply func(message string) (string, bool)
}

var (
	sqlPattern            = regexp.MustCompile(`\(SQL: (.+?)\)`)
	missingClassPattern   = regexp.MustCompile(`Class ['"]?([\w\\]+)['"]? not found`)
	syntaxErrorPattern    = regexp.MustCompile(`syntax error, (.+?) in (.+?):(\d+)`)
	frameworkClassPattern = regexp.MustCompile(`Required \w+ classes not found`)
	unknownColumnPattern  = regexp.MustCompile(`Unknown column '([^']+)' in '([^']+)'`)
)

// DefaultRules is the fixed, ordered rule set.
var DefaultRules = []Rule{
	{Name: "missing-class", Apply: missingClass},
	{Name: "syntax-error", Apply: syntaxError},
	{Name: "framework-classes", Apply: frameworkClasses},
	{Name: "unknown-column", Apply: unknownColumn},
}

// Engine evaluates rules in order. Every rule runs; several may fire.
type Engine struct {
	rules []Rule
}

func NewEngine() *Engine {
	return &Engine{rules: DefaultRules}
}

// Translate returns one note per rule that matched entry.Message, in rule order.
func (e *Engine) Translate(entry model.StructuredEntry) []model.TranslationNote {
	var notes []model.TranslationNote
	for _, r := range e.rules {
		if text, ok := r.Apply(entry.Message); ok {
			notes = append(notes, model.TranslationNote{Rule: r.Name, Text: text})
		}
	}
	return notes
}

// ExtractSQL finds a "(SQL: ...)" fragment in the message, falling back to
// the whole raw line. The first match wins.
func ExtractSQL(message, raw string) (string, bool) {
	if m := sqlPattern.FindStringSubmatch(message); m != nil {
		return m[1], true
	}
	if m := sqlPattern.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	return "", false
}

func missingClass(message string) (string, bool) {
	m := missingClassPattern.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("The PHP class '%s' could not be found. Check your autoloaders, file includes, or spelling.", m[1]), true
}

func syntaxError(message string) (string, bool) {
	m := syntaxErrorPattern.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("There is a PHP syntax error: %s in file %s on line %s.", m[1], m[2], m[3]), true
}

func frameworkClasses(message string) (string, bool) {
	if !frameworkClassPattern.MatchString(message) {
		return "", false
	}
	return "A required framework class is missing. Make sure the framework is loaded and all files are present.", true
}

// unknownColumn stays silent when the phrase appears without the quoted
// column and context.
func unknownColumn(message string) (string, bool) {
	if !strings.Contains(message, "Unknown column") {
		return "", false
	}
	m := unknownColumnPattern.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("The database is missing the column '%s' in context '%s'.\n"+
		"You need to add this column to your database for the feature to work.", m[1], m[2]), true
}
