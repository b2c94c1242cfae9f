package collector

import (
	"context"
	"errors"
	"fmt"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

const (
	DefaultPublicLimit    = 10
	publicBasePriority    = 1
	publicKeywordPriority = 3
)

// DefaultPublicKeywords flag tenders about AI or medical imaging.
var DefaultPublicKeywords = []string{"IA", "imagerie"}

// PublicWatchConfig parameterizes the procurement collector.
type PublicWatchConfig struct {
	Feed     string
	Limit    int
	Keywords []string
}

// PublicWatch reads the public-notice feed.
type PublicWatch struct {
	cfg    PublicWatchConfig
	reader ports.FeedReader
}

var _ ports.Collector = (*PublicWatch)(nil)

func NewPublicWatch(cfg PublicWatchConfig, reader ports.FeedReader) *PublicWatch {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultPublicLimit
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultPublicKeywords
	}
	return &PublicWatch{cfg: cfg, reader: reader}
}

func (p *PublicWatch) Name() string { return "publicwatch" }

func (p *PublicWatch) Section() domain.Section { return domain.SectionPublic }

// Collect scores tenders on their title only.
func (p *PublicWatch) Collect(ctx context.Context) ([]domain.WatchItem, error) {
	if p.reader == nil {
		return nil, errors.New("publicwatch: feed reader is not configured")
	}

	entries, err := p.reader.Read(ctx, p.cfg.Feed, p.cfg.Limit)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", p.cfg.Feed, err)
	}

	items := make([]domain.WatchItem, 0, len(entries))
	for _, entry := range entries {
		priority := publicBasePriority
		if containsAny(p.cfg.Keywords, entry.Title) {
			priority = publicKeywordPriority
		}
		items = append(items, domain.WatchItem{
			Title:    entry.Title,
			Link:     entry.Link,
			Priority: priority,
			Extra:    map[string]string{domain.ExtraDate: entry.Published},
		})
	}
	return domain.Prioritize(items), nil
}
