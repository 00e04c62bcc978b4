package timex

import "time"

// Span marks the start of a timed call.
type Span struct {
	start time.Time
}

// Start opens a span.
func Start() Span { return Span{start: time.Now()} }

// End returns the time elapsed since Start.
func (s Span) End() time.Duration { return time.Since(s.start) }
