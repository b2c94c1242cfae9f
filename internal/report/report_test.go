package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeeklyWatch/internal/domain"
)

var runDate = time.Date(2025, time.October, 6, 9, 0, 0, 0, time.UTC)

func techItems(n int) []domain.WatchItem {
	items := make([]domain.WatchItem, n)
	for i := range items {
		items[i] = domain.WatchItem{Title: "paper", Summary: "s", Link: "l", Priority: 1}
	}
	return items
}

func sampleMarket() []domain.WatchItem {
	return []domain.WatchItem{{Title: "BrainScanAI", Priority: 3, Extra: map[string]string{
		domain.ExtraStatus: "market", domain.ExtraFunding: "5M€", domain.ExtraRegulation: "FDA approved",
	}}}
}

func samplePublic() []domain.WatchItem {
	return []domain.WatchItem{
		{Title: "Marché imagerie", Link: "https://boamp.example/1", Priority: 3, Extra: map[string]string{domain.ExtraDate: "Mon, 06 Oct 2025"}},
		{Title: "Mobilier", Link: "https://boamp.example/2", Priority: 1, Extra: map[string]string{domain.ExtraDate: "Tue, 07 Oct 2025"}},
	}
}

type failingRenderer struct{}

func (failingRenderer) Extension() string { return "pdf" }

func (failingRenderer) Render(Document, io.Writer) error { return errors.New("font missing") }

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "weekly_report_06-10-2025.pdf", FileName(runDate, "pdf"))
	assert.Equal(t, "weekly_report_31-12-2025.md", FileName(time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), "md"))
}

func TestBuildLayout(t *testing.T) {
	t.Parallel()

	doc := Build("", runDate, 0, techItems(15), sampleMarket(), samplePublic())

	assert.Equal(t, "Weekly AI Watch Report - 06-10-2025", doc.Title)
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, HeadingTech, doc.Sections[0].Heading)
	assert.Equal(t, HeadingMarket, doc.Sections[1].Heading)
	assert.Equal(t, HeadingPublic, doc.Sections[2].Heading)

	assert.Len(t, doc.Sections[0].Entries, DefaultTechLimit)
	assert.Len(t, doc.Sections[1].Entries, 1)
	assert.Len(t, doc.Sections[2].Entries, 2)

	market := doc.Sections[1].Entries[0]
	assert.Equal(t, "BrainScanAI", market.Headline)
	assert.Equal(t, []Field{
		{Label: "Status", Value: "market"},
		{Label: "Funding", Value: "5M€"},
		{Label: "Regulation", Value: "FDA approved"},
		{Label: "Priority", Value: "3"},
	}, market.Fields)

	public := doc.Sections[2].Entries[0]
	assert.Equal(t, "Marché imagerie", public.Headline)
	assert.Equal(t, "Date", public.Fields[0].Label)
	assert.Equal(t, "Mon, 06 Oct 2025", public.Fields[0].Value)
}

func TestBuildEmptySections(t *testing.T) {
	t.Parallel()

	doc := Build("Veille", runDate, 10, nil, nil, nil)
	require.Len(t, doc.Sections, 3)
	for _, s := range doc.Sections {
		assert.Empty(t, s.Entries)
		assert.NotEmpty(t, s.Empty)
	}
}

func TestCompileWritesDatedArchive(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "historique_reports")
	c := NewCompiler(Options{ArchiveDir: dir}, TextRenderer{}, nil)

	path, err := c.Compile(context.Background(), techItems(12), sampleMarket(), samplePublic(), runDate)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "weekly_report_06-10-2025.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	techIdx := strings.Index(text, HeadingTech)
	marketIdx := strings.Index(text, HeadingMarket)
	publicIdx := strings.Index(text, HeadingPublic)
	assert.True(t, techIdx >= 0 && techIdx < marketIdx && marketIdx < publicIdx, "sections out of order")
	assert.Equal(t, DefaultTechLimit, strings.Count(text, "- paper |"))
	assert.Contains(t, text, "- BrainScanAI | Status: market | Funding: 5M€ | Regulation: FDA approved | Priority: 3")
}

func TestCompileIdempotentPerDate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := NewCompiler(Options{ArchiveDir: dir}, TextRenderer{}, nil)

	first, err := c.Compile(context.Background(), techItems(3), sampleMarket(), samplePublic(), runDate)
	require.NoError(t, err)
	firstContent, err := os.ReadFile(first)
	require.NoError(t, err)

	second, err := c.Compile(context.Background(), techItems(3), sampleMarket(), samplePublic(), runDate)
	require.NoError(t, err)
	secondContent, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstContent, secondContent)

	other, err := c.Compile(context.Background(), nil, nil, nil, runDate.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	kept, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, firstContent, kept)
}

func TestCompileFailureKeepsArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, FileName(runDate, "pdf"))
	require.NoError(t, os.WriteFile(existing, []byte("previous"), 0o644))

	c := NewCompiler(Options{ArchiveDir: dir}, failingRenderer{}, nil)
	_, err := c.Compile(context.Background(), techItems(1), nil, nil, runDate)
	require.Error(t, err)

	raw, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be cleaned up")
}

func TestCompileWithoutRenderer(t *testing.T) {
	t.Parallel()

	_, err := NewCompiler(Options{ArchiveDir: t.TempDir()}, nil, nil).Compile(context.Background(), nil, nil, nil, runDate)
	assert.ErrorIs(t, err, ErrNoRenderer)
}

func TestTextRendererEmptySection(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(Build("", runDate, 10, nil, nil, nil), &buf))
	assert.Equal(t, 3, strings.Count(buf.String(), emptySection))
}
