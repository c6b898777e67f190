package api

import (
	"encoding/json"
	"time"
)

type ResultStatus string

const (
	ResultStatusEmpty ResultStatus = "empty"
	ResultStatusOK    ResultStatus = "ok"
)

// Result carries either a message (empty) or rows (ok), never both.
type Result struct {
	Status  ResultStatus    `json:"status"`
	Message string          `json:"message,omitempty"`
	Rows    json.RawMessage `json:"rows,omitempty"`
}

type TimePeriod struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int       `json:"duration_days"`
}

// SpendResult is a spend summary together with the window it covers.
type SpendResult struct {
	Result
	Period TimePeriod `json:"period"`
}

type Report struct {
	RunID      string    `json:"run_id"`
	Markdown   string    `json:"markdown"`
	Steps      int       `json:"steps"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMs int64     `json:"duration_ms"`
}

type Error struct {
	Error   string `json:"error"`
	Service string `json:"service,omitempty"`
}
