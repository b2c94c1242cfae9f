package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

// CSVExporter writes comma separated files with a header row.
type CSVExporter struct {
	dir string
}

var _ ports.AuditExporter = (*CSVExporter)(nil)

func NewCSVExporter(dir string) *CSVExporter {
	return &CSVExporter{dir: dir}
}

func (e *CSVExporter) Export(_ context.Context, collector string, items []domain.WatchItem) (string, error) {
	path := artifactPath(e.dir, collector, FormatCSV)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create audit dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	header, rows := table(items)
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write rows: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
