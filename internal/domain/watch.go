package domain

import (
	"sort"
	"time"
)

// Section identifies one of the fixed report sections, one per collector.
type Section string

const (
	SectionTech   Section = "techwatch"
	SectionMarket Section = "marketwatch"
	SectionPublic Section = "publicwatch"
)

// Sections lists report sections in document order.
var Sections = []Section{SectionTech, SectionMarket, SectionPublic}

// Collector-specific attribute names stored in WatchItem.Extra.
const (
	ExtraPublished  = "published"
	ExtraSource     = "source"
	ExtraStatus     = "status"
	ExtraFunding    = "funding"
	ExtraRegulation = "regulation"
	ExtraDate       = "date"
)

// WatchItem is the normalized entity every collector produces.
type WatchItem struct {
	Title    string
	Link     string
	Summary  string
	Priority int
	Extra    map[string]string
}

// Attr returns an Extra attribute or an empty string.
func (w WatchItem) Attr(key string) string {
	if w.Extra == nil {
		return ""
	}
	return w.Extra[key]
}

// ExtraKeys returns the item's attribute names in sorted order.
func (w WatchItem) ExtraKeys() []string {
	keys := make([]string, 0, len(w.Extra))
	for k := range w.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Report is the per-run aggregate handed from the compiler to the dispatcher.
type Report struct {
	GeneratedAt time.Time
	Tech        []WatchItem
	Market      []WatchItem
	Public      []WatchItem
	Path        string
}

// Items returns the collection backing a section.
func (r Report) Items(section Section) []WatchItem {
	switch section {
	case SectionTech:
		return r.Tech
	case SectionMarket:
		return r.Market
	case SectionPublic:
		return r.Public
	default:
		return nil
	}
}
