package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

const defaultSheet = "Sheet1"

// XLSXExporter writes one workbook per collector with a sheet named after it.
type XLSXExporter struct {
	dir string
}

var _ ports.AuditExporter = (*XLSXExporter)(nil)

func NewXLSXExporter(dir string) *XLSXExporter {
	return &XLSXExporter{dir: dir}
}

func (e *XLSXExporter) Export(_ context.Context, collector string, items []domain.WatchItem) (string, error) {
	path := artifactPath(e.dir, collector, FormatXLSX)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create audit dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, collector); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	header, rows := table(items)
	if err := writeRow(f, collector, 1, header); err != nil {
		return "", err
	}
	for i, row := range rows {
		if err := writeRow(f, collector, i+2, row); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
