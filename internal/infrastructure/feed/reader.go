package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"WeeklyWatch/internal/ports"
)

const userAgent = "WeeklyWatch/1.0"

// Reader downloads RSS/Atom/JSON feeds and normalizes their entries.
type Reader struct {
	client *http.Client
}

var _ ports.FeedReader = (*Reader)(nil)

// NewReader wires an HTTP client; a nil client gets a 30s timeout.
func NewReader(client *http.Client) *Reader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Reader{client: client}
}

// Read returns at most limit entries in feed order. limit <= 0 means no cap.
func (r *Reader) Read(ctx context.Context, url string, limit int) ([]ports.FeedEntry, error) {
	parsed, err := r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	items := parsed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	entries := make([]ports.FeedEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, ports.FeedEntry{
			Title:     strings.TrimSpace(item.Title),
			Link:      extractLink(item),
			Summary:   PlainText(firstNonEmpty(item.Description, item.Content)),
			Published: published(item),
		})
	}
	return entries, nil
}

func (r *Reader) fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned %s", url, resp.Status)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return parsed, nil
}

// PlainText drops markup from feed bodies, which often embed HTML.
func PlainText(body string) string {
	body = strings.TrimSpace(body)
	if body == "" || !strings.Contains(body, "<") {
		return body
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func extractLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, "http") {
		return item.GUID
	}
	return ""
}

// published keeps the feed's own date string; parsed dates fill gaps.
func published(item *gofeed.Item) string {
	if item.Published != "" {
		return item.Published
	}
	if item.PublishedParsed != nil {
		return item.PublishedParsed.Format(time.RFC1123Z)
	}
	return item.Updated
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
