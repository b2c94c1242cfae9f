package collector

import (
	"fmt"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

// Registry keeps a mapping from report sections to their collectors.
type Registry struct {
	collectors map[domain.Section]ports.Collector
}

var _ ports.CollectorRegistry = (*Registry)(nil)

// NewRegistry builds a registry holding the given collectors.
func NewRegistry(collectors ...ports.Collector) *Registry {
	r := &Registry{collectors: map[domain.Section]ports.Collector{}}
	for _, c := range collectors {
		r.Register(c)
	}
	return r
}

// Register adds or replaces the collector serving c.Section().
func (r *Registry) Register(c ports.Collector) {
	if r.collectors == nil {
		r.collectors = map[domain.Section]ports.Collector{}
	}
	r.collectors[c.Section()] = c
}

// Resolve returns the collector for a section or an error if it is absent.
func (r *Registry) Resolve(section domain.Section) (ports.Collector, error) {
	if c, ok := r.collectors[section]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("no collector registered for section %s", section)
}
