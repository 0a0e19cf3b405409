// Package progress carries best-effort status updates from long-running
// operations to whoever displays them. Reporting never blocks the caller and
// never fails it.
package progress

import (
	"fmt"
	"log/slog"
)

// Status is one update. Current and Total are 1-based counters that are only
// meaningful when Total > 0.
type Status struct {
	Text    string
	Current uint
	Total   uint
}

// HasCounts reports whether the status carries a (current, total) tick.
func (s Status) HasCounts() bool {
	return s.Total > 0
}

// Fraction returns Current/Total clamped to [0, 1].
func (s Status) Fraction() float64 {
	if s.Total == 0 {
		return 0
	}
	f := float64(s.Current) / float64(s.Total)
	if f > 1 {
		return 1
	}
	return f
}

func (s Status) String() string {
	if !s.HasCounts() {
		return s.Text
	}
	return fmt.Sprintf("%s %d/%d", s.Text, s.Current, s.Total)
}

// Text builds a status without counters.
func Text(text string) Status {
	return Status{Text: text}
}

// Tick builds a status with counters.
func Tick(text string, current, total int) Status {
	if current < 0 {
		current = 0
	}
	if total < 0 {
		total = 0
	}
	return Status{Text: text, Current: uint(current), Total: uint(total)}
}

// Reporter receives status updates.
type Reporter interface {
	Report(Status)
}

// Func adapts a function to Reporter.
type Func func(Status)

// Report implements Reporter.
func (f Func) Report(s Status) {
	if f != nil {
		f(s)
	}
}

// Discard drops every update.
var Discard Reporter = Func(nil)

// Channel forwards updates to a buffered channel and drops them when the
// buffer is full.
type Channel chan Status

// Report implements Reporter.
func (c Channel) Report(s Status) {
	select {
	case c <- s:
	default:
	}
}

// Log writes updates at debug level.
func Log(logger *slog.Logger) Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return Func(func(s Status) {
		if s.HasCounts() {
			logger.Debug("progress", "text", s.Text, "current", s.Current, "total", s.Total)
			return
		}
		logger.Debug("progress", "text", s.Text)
	})
}

// Multi fans an update out to every reporter. Nil reporters are skipped.
func Multi(reporters ...Reporter) Reporter {
	return Func(func(s Status) {
		for _, r := range reporters {
			Safe(r, s)
		}
	})
}

// Safe delivers s to r and swallows any panic raised by the reporter.
func Safe(r Reporter, s Status) {
	if r == nil {
		return
	}
	defer func() { _ = recover() }()
	r.Report(s)
}
