// Package processor turns a stream of raw log lines into diagnostic reports
// and passthrough lines, one output unit per input line.
package processor

import (
	"context"
	"errors"
	"io"

	"github.com/whmcsguru/ExceptionParser/internal/model"
	"github.com/whmcsguru/ExceptionParser/internal/parser"
	"github.com/whmcsguru/ExceptionParser/internal/translate"
)

// LineSource yields raw lines until it returns io.EOF.
type LineSource interface {
	Next() (model.RawLine, error)
}

// Sink receives every outcome in input order.
type Sink interface {
	Render(outcome model.Outcome) error
}

// Processor holds only read-only collaborators, so lines never influence
// each other and Process is safe to call from any goroutine.
type Processor struct {
	matcher parser.Matcher
	engine  *translate.Engine
}

// New creates a Processor with the built-in grammar and rule set.
func New() *Processor {
	return &Processor{
		matcher: parser.NewEntryMatcher(),
		engine:  translate.NewEngine(),
	}
}

// Process classifies one line and, on a match, assembles its report.
func (p *Processor) Process(raw model.RawLine) model.Outcome {
	entry, ok := p.matcher.Match(raw.Text)
	if !ok {
		return model.Outcome{Raw: raw.Text, Source: raw.Source}
	}

	report := &model.DiagnosticReport{
		Entry:  entry,
		Origin: parser.ResolveOrigin(entry, raw.Text),
		Frames: parser.ExtractFrames(raw.Text),
		Notes:  p.engine.Translate(entry),
		Raw:    raw.Text,
	}
	if sql, found := translate.ExtractSQL(entry.Message, raw.Text); found {
		report.SQL = sql
	}
	if len(report.Frames) == 0 {
		report.Frames = []model.StackFrame{{File: entry.ReportedFile, Line: entry.ReportedLine}}
	}

	return model.Outcome{Report: report, Source: raw.Source}
}

// Run drains src into sink and returns the number of lines handled.
// Cancellation is only observed between lines.
func (p *Processor) Run(ctx context.Context, src LineSource, sink Sink) (int, error) {
	var n int
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		raw, err := src.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}

		n++
		if err := sink.Render(p.Process(raw)); err != nil {
			return n, err
		}
	}
}
