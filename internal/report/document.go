package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"WeeklyWatch/internal/domain"
)

const (
	// DateLayout renders dates as DD-MM-YYYY in titles and file names.
	DateLayout = "02-01-2006"

	HeadingTech   = "1. Technology Watch"
	HeadingMarket = "2. Competitive Watch"
	HeadingPublic = "3. Public Tenders Watch"

	DefaultTitle     = "Weekly AI Watch Report"
	DefaultTechLimit = 10
	emptySection     = "No items this week."
)

// Document is the renderer-neutral layout of one weekly report.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Sections    []Section
}

// Section holds a heading and one entry per watch item.
type Section struct {
	Heading string
	Entries []Entry
	Empty   string
}

// Entry is a headline followed by labelled fields, e.g. "Priority: 2".
type Entry struct {
	Headline string
	Fields   []Field
}

// Field is a single label/value pair of an entry.
type Field struct {
	Label string
	Value string
}

// Renderer turns a Document into a concrete file format.
type Renderer interface {
	Extension() string
	Render(doc Document, w io.Writer) error
}

// Build lays out the three sections. Tech items are capped at techLimit;
// the other sections list everything.
func Build(title string, date time.Time, techLimit int, tech, market, public []domain.WatchItem) Document {
	if title == "" {
		title = DefaultTitle
	}
	if techLimit <= 0 {
		techLimit = DefaultTechLimit
	}
	if len(tech) > techLimit {
		tech = tech[:techLimit]
	}

	return Document{
		Title:       fmt.Sprintf("%s - %s", title, date.Format(DateLayout)),
		GeneratedAt: date,
		Sections: []Section{
			buildSection(HeadingTech, tech, techEntry),
			buildSection(HeadingMarket, market, marketEntry),
			buildSection(HeadingPublic, public, publicEntry),
		},
	}
}

func buildSection(heading string, items []domain.WatchItem, entry func(domain.WatchItem) Entry) Section {
	s := Section{Heading: heading, Empty: emptySection}
	for _, item := range items {
		s.Entries = append(s.Entries, entry(item))
	}
	return s
}

func techEntry(item domain.WatchItem) Entry {
	return Entry{
		Headline: item.Title,
		Fields: []Field{
			{Label: "Priority", Value: strconv.Itoa(item.Priority)},
			{Label: "Summary", Value: item.Summary},
			{Label: "Link", Value: item.Link},
		},
	}
}

func marketEntry(item domain.WatchItem) Entry {
	return Entry{
		Headline: item.Title,
		Fields: []Field{
			{Label: "Status", Value: item.Attr(domain.ExtraStatus)},
			{Label: "Funding", Value: item.Attr(domain.ExtraFunding)},
			{Label: "Regulation", Value: item.Attr(domain.ExtraRegulation)},
			{Label: "Priority", Value: strconv.Itoa(item.Priority)},
		},
	}
}

func publicEntry(item domain.WatchItem) Entry {
	return Entry{
		Headline: item.Title,
		Fields: []Field{
			{Label: "Date", Value: item.Attr(domain.ExtraDate)},
			{Label: "Link", Value: item.Link},
			{Label: "Priority", Value: strconv.Itoa(item.Priority)},
		},
	}
}
