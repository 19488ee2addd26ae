package aggregator

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/whmcsguru/ExceptionParser/internal/model"
)

// Stats holds a point-in-time snapshot of aggregated counts.
type Stats struct {
	Uptime         string           `json:"uptime"`
	TotalLines     int64            `json:"total_lines"`
	Matched        int64            `json:"matched"`
	Passthrough    int64            `json:"passthrough"`
	SeverityCounts map[string]int64 `json:"severity_counts"`
	ExceptionTypes map[string]int64 `json:"exception_types"`
	RuleHits       map[string]int64 `json:"rule_hits"`
	WithSQL        int64            `json:"with_sql"`
}

// Aggregator tallies outcomes as they are rendered. It only observes;
// nothing it records flows back into line processing.
type Aggregator struct {
	mu         sync.RWMutex
	startTime  time.Time
	totalLines int64
	matched    int64
	severities map[string]int64
	exceptions map[string]int64
	rules      map[string]int64
	withSQL    int64
}

func New() *Aggregator {
	return &Aggregator{
		startTime:  time.Now(),
		severities: make(map[string]int64),
		exceptions: make(map[string]int64),
		rules:      make(map[string]int64),
	}
}

// Record adds one outcome to the tally.
func (a *Aggregator) Record(outcome model.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalLines++
	if !outcome.Matched() {
		return
	}

	rep := outcome.Report
	a.matched++
	a.severities[string(rep.Entry.Severity)]++
	a.exceptions[rep.Entry.ExceptionType]++
	for _, n := range rep.Notes {
		a.rules[n.Rule]++
	}
	if rep.HasSQL() {
		a.withSQL++
	}
}

// Snapshot returns the current counts.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Stats{
		Uptime:         time.Since(a.startTime).Truncate(time.Millisecond).String(),
		TotalLines:     a.totalLines,
		Matched:        a.matched,
		Passthrough:    a.totalLines - a.matched,
		SeverityCounts: copyCounts(a.severities),
		ExceptionTypes: copyCounts(a.exceptions),
		RuleHits:       copyCounts(a.rules),
		WithSQL:        a.withSQL,
	}
}

// ---------------------------------------------------------------------------
// Summary rendering
// ---------------------------------------------------------------------------

var (
	styleHeading = lipgloss.NewStyle().Bold(true).Underline(true)
	styleKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(24)
	styleBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// WriteSummary prints a boxed summary of s to w.
func WriteSummary(w io.Writer, s Stats) error {
	rows := []string{
		styleHeading.Render("Summary"),
		row("lines", s.TotalLines),
		row("errors detected", s.Matched),
		row("passed through", s.Passthrough),
		row("with SQL", s.WithSQL),
	}

	rows = append(rows, section("severity", s.SeverityCounts)...)
	rows = append(rows, section("exception", s.ExceptionTypes)...)
	rows = append(rows, section("translation", s.RuleHits)...)

	_, err := fmt.Fprintln(w, styleBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	return err
}

func row(key string, v int64) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, styleKey.Render(key), fmt.Sprintf("%d", v))
}

// section lists counts by descending value, then by key.
func section(title string, counts map[string]int64) []string {
	if len(counts) == 0 {
		return nil
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	rows := []string{"", styleHeading.Render(title)}
	for _, k := range keys {
		rows = append(rows, row(k, counts[k]))
	}
	return rows
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
