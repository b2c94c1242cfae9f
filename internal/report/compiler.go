package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

// DefaultArchiveDir keeps one document per run date.
const DefaultArchiveDir = "historique_reports"

// ErrNoRenderer is returned when the compiler has no output format.
var ErrNoRenderer = errors.New("report renderer is not configured")

// Options tune the compiled document.
type Options struct {
	ArchiveDir string
	Title      string
	TechLimit  int
}

// Compiler builds the weekly document and stores it in the dated archive.
type Compiler struct {
	opts     Options
	renderer Renderer
	logger   *slog.Logger
}

var _ ports.ReportCompiler = (*Compiler)(nil)

func NewCompiler(opts Options, renderer Renderer, logger *slog.Logger) *Compiler {
	if opts.ArchiveDir == "" {
		opts.ArchiveDir = DefaultArchiveDir
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{opts: opts, renderer: renderer, logger: logger}
}

// FileName is the archive name for a run date, e.g. weekly_report_06-10-2025.pdf.
func FileName(date time.Time, ext string) string {
	return fmt.Sprintf("weekly_report_%s.%s", date.Format(DateLayout), ext)
}

// Compile renders the document to a temp file and renames it into place, so
// a failure never clobbers an archived report. Same-date runs replace the
// file for that date.
func (c *Compiler) Compile(ctx context.Context, tech, market, public []domain.WatchItem, date time.Time) (string, error) {
	if c.renderer == nil {
		return "", ErrNoRenderer
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("compile report: %w", err)
	}

	if err := os.MkdirAll(c.opts.ArchiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	doc := Build(c.opts.Title, date, c.opts.TechLimit, tech, market, public)
	target := filepath.Join(c.opts.ArchiveDir, FileName(date, c.renderer.Extension()))

	tmp, err := os.CreateTemp(c.opts.ArchiveDir, ".weekly_report_*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := c.renderer.Render(doc, tmp); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("render report: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("chmod temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("move report into archive: %w", err)
	}

	c.logger.Info("report generated", "path", target,
		"tech", len(doc.Sections[0].Entries),
		"market", len(doc.Sections[1].Entries),
		"public", len(doc.Sections[2].Entries))
	return target, nil
}
