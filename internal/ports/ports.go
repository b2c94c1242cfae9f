package ports

import (
	"context"
	"time"

	"WeeklyWatch/internal/domain"
)

// Collector pulls items from one source and returns them priority-sorted.
// A non-nil error alongside items means the result is partial.
type Collector interface {
	Name() string
	Section() domain.Section
	Collect(ctx context.Context) ([]domain.WatchItem, error)
}

// CollectorRegistry resolves the collector serving a report section.
type CollectorRegistry interface {
	Resolve(section domain.Section) (Collector, error)
}

// FeedEntry is one parsed entry of a feed; any field may be empty.
type FeedEntry struct {
	Title     string
	Link      string
	Summary   string
	Published string
}

// FeedReader fetches and parses a feed endpoint.
type FeedReader interface {
	Read(ctx context.Context, url string, limit int) ([]FeedEntry, error)
}

// Summarizer condenses text following an instruction within a token budget.
type Summarizer interface {
	Summarize(ctx context.Context, instruction, text string, maxTokens int) (string, error)
}

// AuditExporter writes a collector's prioritized output to a tabular artifact.
type AuditExporter interface {
	Export(ctx context.Context, collector string, items []domain.WatchItem) (string, error)
}

// ReportCompiler renders the three sections into a dated archive document.
type ReportCompiler interface {
	Compile(ctx context.Context, tech, market, public []domain.WatchItem, date time.Time) (string, error)
}

// Channel delivers the compiled document through one notification pathway.
type Channel interface {
	Name() string
	Send(ctx context.Context, report domain.Report) error
}

// RunRecorder persists run outcomes for operators.
type RunRecorder interface {
	Record(ctx context.Context, run domain.RunRecord) error
	Recent(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// Scheduler drives a job on its own cadence until ctx is cancelled.
type Scheduler interface {
	Run(ctx context.Context, job func(context.Context, time.Time)) error
}
