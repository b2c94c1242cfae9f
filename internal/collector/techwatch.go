package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

const (
	DefaultTechLimit     = 20
	DefaultSummaryTokens = 150
	DefaultSummaryPrompt = "Produce a clinician-oriented concise summary of the following text."
	techBasePriority     = 1
	techKeywordBoost     = 1
)

// DefaultTechKeywords boost literature entries mentioning AI methods.
var DefaultTechKeywords = []string{"AI", "deep learning"}

// TechWatchConfig parameterizes the literature collector.
type TechWatchConfig struct {
	Feeds         []string
	Limit         int
	Keywords      []string
	SummaryPrompt string
	SummaryTokens int
}

// TechWatch reads literature feeds and condenses each entry.
type TechWatch struct {
	cfg        TechWatchConfig
	reader     ports.FeedReader
	summarizer ports.Summarizer
	logger     *slog.Logger
	onSkip     func()
}

var _ ports.Collector = (*TechWatch)(nil)

// NewTechWatch wires a feed reader and an optional summarizer.
func NewTechWatch(cfg TechWatchConfig, reader ports.FeedReader, summarizer ports.Summarizer, logger *slog.Logger) *TechWatch {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultTechLimit
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultTechKeywords
	}
	if cfg.SummaryPrompt == "" {
		cfg.SummaryPrompt = DefaultSummaryPrompt
	}
	if cfg.SummaryTokens <= 0 {
		cfg.SummaryTokens = DefaultSummaryTokens
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TechWatch{cfg: cfg, reader: reader, summarizer: summarizer, logger: logger}
}

// OnSummaryFailure registers a hook invoked for every skipped entry.
func (t *TechWatch) OnSummaryFailure(fn func()) {
	t.onSkip = fn
}

func (t *TechWatch) Name() string { return "techwatch" }

func (t *TechWatch) Section() domain.Section { return domain.SectionTech }

// Collect reads every feed; a broken feed is reported but does not stop the
// others. Entries whose summarization fails are skipped.
func (t *TechWatch) Collect(ctx context.Context) ([]domain.WatchItem, error) {
	if t.reader == nil {
		return nil, errors.New("techwatch: feed reader is not configured")
	}

	var (
		items   []domain.WatchItem
		feedErr []error
	)

	for _, url := range t.cfg.Feeds {
		entries, err := t.reader.Read(ctx, url, t.cfg.Limit)
		if err != nil {
			t.logger.Warn("feed unavailable", "feed", url, "error", err)
			feedErr = append(feedErr, fmt.Errorf("feed %s: %w", url, err))
			continue
		}

		for _, entry := range entries {
			item, ok := t.toItem(ctx, url, entry)
			if ok {
				items = append(items, item)
			}
		}
		t.logger.Debug("feed processed", "feed", url, "entries", len(entries))
	}

	return domain.Prioritize(items), errors.Join(feedErr...)
}

func (t *TechWatch) toItem(ctx context.Context, feedURL string, entry ports.FeedEntry) (domain.WatchItem, bool) {
	summary := entry.Summary
	if t.summarizer != nil && entry.Summary != "" {
		condensed, err := t.summarizer.Summarize(ctx, t.cfg.SummaryPrompt, entry.Summary, t.cfg.SummaryTokens)
		if err != nil {
			t.logger.Warn("summary failed, entry skipped", "title", entry.Title, "error", err)
			if t.onSkip != nil {
				t.onSkip()
			}
			return domain.WatchItem{}, false
		}
		summary = condensed
	}

	priority := techBasePriority
	if containsAny(t.cfg.Keywords, entry.Title, entry.Summary, summary) {
		priority += techKeywordBoost
	}

	return domain.WatchItem{
		Title:    entry.Title,
		Link:     entry.Link,
		Summary:  summary,
		Priority: priority,
		Extra: map[string]string{
			domain.ExtraPublished: entry.Published,
			domain.ExtraSource:    feedURL,
		},
	}, true
}
