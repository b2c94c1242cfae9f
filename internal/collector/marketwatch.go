package collector

import (
	"context"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

// Competitor is one curated registry record.
type Competitor struct {
	Name       string `yaml:"name"`
	Status     string `yaml:"status"`
	Funding    string `yaml:"funding"`
	Regulation string `yaml:"regulation"`
	Priority   int    `yaml:"priority"`
}

// DefaultCompetitors is the registry shipped with the program.
var DefaultCompetitors = []Competitor{
	{Name: "BrainScanAI", Status: "market", Funding: "5M€", Regulation: "FDA approved", Priority: 3},
	{Name: "NeuroVision", Status: "preprod", Funding: "2M€", Regulation: "CE", Priority: 2},
	{Name: "NeuroScanPro", Status: "R&D", Funding: "1M€", Regulation: "pending", Priority: 1},
}

// MarketWatch exposes the competitor registry; priorities are pre-assigned.
type MarketWatch struct {
	competitors []Competitor
}

var _ ports.Collector = (*MarketWatch)(nil)

// NewMarketWatch copies the registry so later config edits cannot leak in.
func NewMarketWatch(competitors []Competitor) *MarketWatch {
	registry := make([]Competitor, len(competitors))
	copy(registry, competitors)
	return &MarketWatch{competitors: registry}
}

func (m *MarketWatch) Name() string { return "marketwatch" }

func (m *MarketWatch) Section() domain.Section { return domain.SectionMarket }

func (m *MarketWatch) Collect(_ context.Context) ([]domain.WatchItem, error) {
	items := make([]domain.WatchItem, 0, len(m.competitors))
	for _, c := range m.competitors {
		items = append(items, domain.WatchItem{
			Title:    c.Name,
			Priority: c.Priority,
			Extra: map[string]string{
				domain.ExtraStatus:     c.Status,
				domain.ExtraFunding:    c.Funding,
				domain.ExtraRegulation: c.Regulation,
			},
		})
	}
	return domain.Prioritize(items), nil
}
