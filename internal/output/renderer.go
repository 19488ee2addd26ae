package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/whmcsguru/ExceptionParser/internal/model"
	"github.com/whmcsguru/ExceptionParser/internal/pathfmt"
)

// Renderer writes outcomes to an output stream.
type Renderer interface {
	Render(outcome model.Outcome) error
}

// ---------------------------------------------------------------------------
// Text Renderer (diagnostic blocks)
// ---------------------------------------------------------------------------

var (
	styleBanner      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red bold
	styleWarnBanner  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true) // yellow
	styleNotice      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // gray
	styleTranslation = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)  // cyan
	styleQuery       = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	styleFrame       = lipgloss.NewStyle().Faint(true)
)

// TextRenderer prints a diagnostic block per matched entry and echoes every
// other line unchanged. Colors are only applied when enabled.
type TextRenderer struct {
	w     io.Writer
	color bool
}

// NewTextRenderer returns a Renderer that writes diagnostic blocks to w.
func NewTextRenderer(w io.Writer, color bool) *TextRenderer {
	return &TextRenderer{w: w, color: color}
}

func (r *TextRenderer) Render(outcome model.Outcome) error {
	if !outcome.Matched() {
		_, err := io.WriteString(r.w, outcome.Raw)
		return err
	}
	_, err := io.WriteString(r.w, r.block(outcome.Report))
	return err
}

func (r *TextRenderer) block(rep *model.DiagnosticReport) string {
	e := rep.Entry
	var b strings.Builder

	b.WriteString("\n" + r.paint(bannerStyle(e.Severity), "=== ERROR DETECTED ===") + "\n")
	fmt.Fprintf(&b, "Time: %s\n", e.Timestamp)
	fmt.Fprintf(&b, "Context: %s\n", e.Context)
	fmt.Fprintf(&b, "Error Type: %s\n", e.Severity)
	fmt.Fprintf(&b, "Exception: %s\n", e.ExceptionType)
	fmt.Fprintf(&b, "File: %s\n", pathfmt.Shorten(e.ReportedFile))
	fmt.Fprintf(&b, "Line: %d\n", e.ReportedLine)
	fmt.Fprintf(&b, "Message: %s\n", e.Message)

	if rep.HasSQL() {
		sql := r.paint(styleQuery, rep.SQL)
		fmt.Fprintf(&b, "SQL/Code: %s\n", sql)
		fmt.Fprintf(&b, "Query: %s\n", sql)
	}

	for _, note := range rep.Notes {
		b.WriteString("\n" + r.paint(styleTranslation, "*** TRANSLATION ***") + "\n")
		b.WriteString(note.Text + "\n")
	}

	fmt.Fprintf(&b, "Origin: %s:%d\n", pathfmt.Shorten(rep.Origin.File), rep.Origin.Line)
	b.WriteString("Stack Trace:\n")
	for _, f := range rep.Frames {
		b.WriteString(r.paint(styleFrame, fmt.Sprintf("  at %s:%d", pathfmt.Shorten(f.File), f.Line)) + "\n")
	}
	b.WriteString(r.paint(bannerStyle(e.Severity), "=====================") + "\n")

	return b.String()
}

func (r *TextRenderer) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

func bannerStyle(sev model.Severity) lipgloss.Style {
	switch sev {
	case model.SeverityWarning:
		return styleWarnBanner
	case model.SeverityNotice:
		return styleNotice
	default:
		return styleBanner
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// jsonOutcome is the wire shape of one outcome. Passthrough lines only
// carry raw; matched lines carry the report plus display-ready paths.
type jsonOutcome struct {
	Source  string                  `json:"source,omitempty"`
	Raw     string                  `json:"raw,omitempty"`
	Report  *model.DiagnosticReport `json:"report,omitempty"`
	Display *jsonDisplay            `json:"display,omitempty"`
}

type jsonDisplay struct {
	File   string   `json:"file"`
	Origin string   `json:"origin"`
	Trace  []string `json:"trace"`
}

// JSONRenderer prints each outcome as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(outcome model.Outcome) error {
	out := jsonOutcome{Source: outcome.Source}
	if !outcome.Matched() {
		out.Raw = outcome.Raw
		return r.enc.Encode(out)
	}

	rep := outcome.Report
	display := &jsonDisplay{
		File:   pathfmt.Shorten(rep.Entry.ReportedFile),
		Origin: fmt.Sprintf("%s:%d", pathfmt.Shorten(rep.Origin.File), rep.Origin.Line),
	}
	for _, f := range rep.Frames {
		display.Trace = append(display.Trace, fmt.Sprintf("%s:%d", pathfmt.Shorten(f.File), f.Line))
	}

	out.Report = rep
	out.Display = display
	return r.enc.Encode(out)
}
