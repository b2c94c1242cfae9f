package domain

import "time"

// RunStatus summarizes how a run ended.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunPartial   RunStatus = "partial"
	RunFailed    RunStatus = "failed"
)

// RunRecord is the audit snapshot of one run, persisted when history is enabled.
type RunRecord struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	ReportPath  string
	TechCount   int
	MarketCount int
	PublicCount int
	Delivered   []string
	Failed      []string
	Status      RunStatus
	Error       string
}
