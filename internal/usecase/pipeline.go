package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/metrics"
	"WeeklyWatch/internal/ports"
)

// PipelineDeps wires all driven adapters into the weekly pipeline.
type PipelineDeps struct {
	Collectors ports.CollectorRegistry
	Auditor    ports.AuditExporter
	Compiler   ports.ReportCompiler
	Dispatcher *Dispatcher
	History    ports.RunRecorder
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	// Parallel runs the three collectors concurrently.
	Parallel bool
	Clock    func() time.Time
	NewID    func() string
}

// Pipeline runs collection, compilation and dispatch for one week.
type Pipeline struct {
	collectors ports.CollectorRegistry
	auditor    ports.AuditExporter
	compiler   ports.ReportCompiler
	dispatcher *Dispatcher
	history    ports.RunRecorder
	metrics    *metrics.Metrics
	logger     *slog.Logger
	parallel   bool
	clock      func() time.Time
	newID      func() string
}

// RunSummary is what a caller learns about one run.
type RunSummary struct {
	Record   domain.RunRecord
	Report   domain.Report
	Dispatch DispatchResult
	// CollectErr joins collector failures; the run still proceeds.
	CollectErr error
}

type sectionResult struct {
	name  string
	items []domain.WatchItem
	err   error
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		collectors: deps.Collectors,
		auditor:    deps.Auditor,
		compiler:   deps.Compiler,
		dispatcher: deps.Dispatcher,
		history:    deps.History,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		parallel:   deps.Parallel,
		clock:      deps.Clock,
		newID:      deps.NewID,
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if p.newID == nil {
		p.newID = uuid.NewString
	}
	if p.dispatcher == nil {
		p.dispatcher = NewDispatcher(nil, 0, p.logger, p.metrics)
	}
	return p
}

// Run executes one weekly cycle for the given report date. The returned
// error is non-nil only when no document could be archived; channel and
// collector failures are reported in the summary.
func (p *Pipeline) Run(ctx context.Context, date time.Time) (RunSummary, error) {
	if p.collectors == nil || p.compiler == nil {
		return RunSummary{}, errors.New("pipeline is not configured")
	}

	record := domain.RunRecord{ID: p.newID(), StartedAt: p.clock()}
	logger := p.logger.With("run_id", record.ID)
	logger.Info("weekly watch run started", "date", date.Format(time.DateOnly))

	results := p.collect(ctx, logger)

	var collectErrs []error
	for _, res := range results {
		if res.err != nil {
			collectErrs = append(collectErrs, fmt.Errorf("%s: %w", res.name, res.err))
		}
		p.export(ctx, logger, res)
	}

	summary := RunSummary{CollectErr: errors.Join(collectErrs...)}
	tech, market, public := results[0].items, results[1].items, results[2].items
	record.TechCount, record.MarketCount, record.PublicCount = len(tech), len(market), len(public)

	path, err := p.compiler.Compile(ctx, tech, market, public, date)
	if err != nil {
		record.Status = domain.RunFailed
		record.Error = err.Error()
		summary.Record = p.finish(ctx, logger, record)
		return summary, fmt.Errorf("compile report: %w", err)
	}

	report := domain.Report{GeneratedAt: date, Tech: tech, Market: market, Public: public, Path: path}
	dispatch := p.dispatcher.Dispatch(ctx, report)

	record.ReportPath = path
	record.Delivered = dispatch.Delivered
	record.Failed = dispatch.Failed
	record.Status = domain.RunSucceeded
	if problems := errors.Join(summary.CollectErr, dispatch.Err()); problems != nil {
		record.Status = domain.RunPartial
		record.Error = problems.Error()
	}

	summary.Report = report
	summary.Dispatch = dispatch
	summary.Record = p.finish(ctx, logger, record)
	return summary, nil
}

// collect resolves and runs the collectors; results keep the fixed section
// order whether or not they ran concurrently.
func (p *Pipeline) collect(ctx context.Context, logger *slog.Logger) []sectionResult {
	results := make([]sectionResult, len(domain.Sections))

	run := func(i int, section domain.Section) {
		results[i] = p.collectSection(ctx, logger, section)
	}

	if !p.parallel {
		for i, section := range domain.Sections {
			run(i, section)
		}
		return results
	}

	var wg sync.WaitGroup
	for i, section := range domain.Sections {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run(i, section)
		}()
	}
	wg.Wait()
	return results
}

func (p *Pipeline) collectSection(ctx context.Context, logger *slog.Logger, section domain.Section) (res sectionResult) {
	res.name = string(section)

	c, err := p.collectors.Resolve(section)
	if err != nil {
		logger.Error("collector missing", "section", section, "error", err)
		res.err = err
		return res
	}
	res.name = c.Name()

	defer func() {
		if r := recover(); r != nil {
			res.items = nil
			res.err = fmt.Errorf("collector panicked: %v", r)
			logger.Error("collector panicked", "collector", res.name, "panic", r)
		}
	}()

	res.items, res.err = c.Collect(ctx)
	if res.err != nil {
		logger.Warn("collector degraded", "collector", res.name, "items", len(res.items), "error", res.err)
	} else {
		logger.Info("collector finished", "collector", res.name, "items", len(res.items))
	}
	p.metrics.ObserveCollected(res.name, len(res.items))
	return res
}

func (p *Pipeline) export(ctx context.Context, logger *slog.Logger, res sectionResult) {
	if p.auditor == nil {
		return
	}
	path, err := p.auditor.Export(ctx, res.name, res.items)
	if err != nil {
		logger.Warn("audit export failed", "collector", res.name, "error", err)
		return
	}
	logger.Debug("audit exported", "collector", res.name, "path", path)
}

func (p *Pipeline) finish(ctx context.Context, logger *slog.Logger, record domain.RunRecord) domain.RunRecord {
	record.FinishedAt = p.clock()
	p.metrics.ObserveRun(string(record.Status), record.StartedAt, record.FinishedAt)

	if p.history != nil {
		if err := p.history.Record(ctx, record); err != nil {
			logger.Warn("run history not saved", "error", err)
		}
	}

	logger.Info("weekly watch run finished",
		"status", record.Status,
		"report", record.ReportPath,
		"delivered", strings.Join(record.Delivered, ","),
		"failed", strings.Join(record.Failed, ","),
		"duration", record.FinishedAt.Sub(record.StartedAt))
	return record
}
