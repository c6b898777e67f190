package domain

import "time"

// Report is the outcome of one agent run.
type Report struct {
	RunID      string
	Markdown   string
	Steps      int
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// TimePeriod represents a time range covered by a query
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}
