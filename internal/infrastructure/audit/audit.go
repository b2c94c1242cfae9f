// Package audit writes each collector's prioritized output to a tabular file
// next to the process, one file per collector, overwritten every run.
package audit

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	fileSuffix = "_pro"
)

var baseColumns = []string{"title", "link", "summary", "priority"}

// New returns the exporter for format, writing into dir.
func New(format, dir string) (ports.AuditExporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		return NewCSVExporter(dir), nil
	case FormatXLSX:
		return NewXLSXExporter(dir), nil
	default:
		return nil, fmt.Errorf("unknown audit format %q", format)
	}
}

// FileName is the artifact name for a collector, e.g. techwatch_pro.csv.
func FileName(collector, ext string) string {
	return collector + fileSuffix + "." + ext
}

func artifactPath(dir, collector, ext string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, FileName(collector, ext))
}

// table flattens items into a header plus rows. Extra columns come from the
// first item since a collector's items share one schema.
func table(items []domain.WatchItem) ([]string, [][]string) {
	var extra []string
	if len(items) > 0 {
		extra = items[0].ExtraKeys()
	}

	header := append(append([]string{}, baseColumns...), extra...)
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := []string{item.Title, item.Link, item.Summary, strconv.Itoa(item.Priority)}
		for _, key := range extra {
			row = append(row, item.Attr(key))
		}
		rows = append(rows, row)
	}
	return header, rows
}
