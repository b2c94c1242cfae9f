package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	runsTable  = "watch_runs"
	timeLayout = "2006-01-02T15:04:05.000000Z"
)

var runColumns = []string{
	"id", "started_at", "finished_at", "report_path",
	"tech_count", "market_count", "public_count",
	"delivered", "failed", "status", "error",
}

const createRunsTable = `CREATE TABLE IF NOT EXISTS watch_runs (
	id           TEXT PRIMARY KEY,
	started_at   TEXT NOT NULL,
	finished_at  TEXT NOT NULL,
	report_path  TEXT NOT NULL DEFAULT '',
	tech_count   INTEGER NOT NULL DEFAULT 0,
	market_count INTEGER NOT NULL DEFAULT 0,
	public_count INTEGER NOT NULL DEFAULT 0,
	delivered    TEXT NOT NULL DEFAULT '',
	failed       TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	error        TEXT NOT NULL DEFAULT ''
)`

// HistoryRepository stores one row per pipeline run.
type HistoryRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRecorder = (*HistoryRepository)(nil)

// Open connects to the history database; driver is sqlite or postgres.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewHistoryRepository wires a sql.DB with the placeholder style of driver.
func NewHistoryRepository(db *sql.DB, driver string) *HistoryRepository {
	var format sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		format = sq.Dollar
	}
	return &HistoryRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(format).RunWith(db),
	}
}

// Migrate creates the runs table when missing.
func (r *HistoryRepository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, createRunsTable); err != nil {
		return fmt.Errorf("create %s: %w", runsTable, err)
	}
	return nil
}

// Record inserts a run snapshot.
func (r *HistoryRepository) Record(ctx context.Context, run domain.RunRecord) error {
	if r.db == nil {
		return nil
	}

	_, err := r.builder.Insert(runsTable).
		Columns(runColumns...).
		Values(
			run.ID,
			formatTime(run.StartedAt),
			formatTime(run.FinishedAt),
			run.ReportPath,
			run.TechCount,
			run.MarketCount,
			run.PublicCount,
			strings.Join(run.Delivered, ","),
			strings.Join(run.Failed, ","),
			string(run.Status),
			run.Error,
		).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	return nil
}

// Recent returns up to limit runs, newest first.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.builder.Select(runColumns...).
		From(runsTable).
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var result []domain.RunRecord
	for rows.Next() {
		var (
			run               domain.RunRecord
			started, finished string
			delivered, failed string
			status            string
		)
		if err := rows.Scan(
			&run.ID, &started, &finished, &run.ReportPath,
			&run.TechCount, &run.MarketCount, &run.PublicCount,
			&delivered, &failed, &status, &run.Error,
		); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}

		if run.StartedAt, err = parseTime(started); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("run %s started_at: %w", run.ID, err)
		}
		if run.FinishedAt, err = parseTime(finished); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("run %s finished_at: %w", run.ID, err)
		}
		run.Delivered = splitList(delivered)
		run.Failed = splitList(failed)
		run.Status = domain.RunStatus(status)
		result = append(result, run)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
