package storage

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeeklyWatch/internal/domain"
)

func sampleRun(id string, started time.Time) domain.RunRecord {
	return domain.RunRecord{
		ID:          id,
		StartedAt:   started,
		FinishedAt:  started.Add(90 * time.Second),
		ReportPath:  "historique_reports/weekly_report_06-10-2025.pdf",
		TechCount:   10,
		MarketCount: 3,
		PublicCount: 4,
		Delivered:   []string{"slack"},
		Failed:      []string{"email"},
		Status:      domain.RunPartial,
		Error:       "email: 535 authentication failed",
	}
}

func TestRecordUsesDollarPlaceholdersForPostgres(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	started := time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)
	run := sampleRun("run-1", started)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO watch_runs (id,started_at,finished_at,report_path,tech_count,market_count,public_count,delivered,failed,status,error) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)")).
		WithArgs("run-1", "2025-10-06T09:00:00.000000Z", "2025-10-06T09:01:30.000000Z", run.ReportPath,
			10, 3, 4, "slack", "email", "partial", run.Error).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewHistoryRepository(db, DriverPostgres)
	require.NoError(t, repo.Record(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentScansRows(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(runColumns).
		AddRow("run-2", "2025-10-13T09:00:00.000000Z", "2025-10-13T09:02:00.000000Z", "r2.pdf", 8, 3, 2, "email,slack", "", "succeeded", "").
		AddRow("run-1", "2025-10-06T09:00:00.000000Z", "2025-10-06T09:01:30.000000Z", "r1.pdf", 10, 3, 4, "slack", "email", "partial", "boom")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, started_at, finished_at, report_path, tech_count, market_count, public_count, delivered, failed, status, error FROM watch_runs ORDER BY started_at DESC LIMIT 5")).
		WillReturnRows(rows)

	repo := NewHistoryRepository(db, DriverSQLite)
	runs, err := repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, []string{"email", "slack"}, runs[0].Delivered)
	assert.Nil(t, runs[0].Failed)
	assert.Equal(t, domain.RunSucceeded, runs[0].Status)
	assert.Equal(t, time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC), runs[0].StartedAt)
	assert.Equal(t, []string{"email"}, runs[1].Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentRejectsCorruptTimestamp(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM watch_runs").
		WillReturnRows(sqlmock.NewRows(runColumns).
			AddRow("run-x", "yesterday", "", "", 0, 0, 0, "", "", "failed", ""))

	_, err = NewHistoryRepository(db, DriverSQLite).Recent(context.Background(), 1)
	assert.ErrorContains(t, err, "started_at")
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repo := NewHistoryRepository(db, DriverSQLite)
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Migrate(ctx))

	first := time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, sampleRun("a", first)))
	require.NoError(t, repo.Record(ctx, sampleRun("b", first.AddDate(0, 0, 7))))
	require.NoError(t, repo.Record(ctx, sampleRun("c", first.AddDate(0, 0, 14))))

	runs, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Equal(t, sampleRun("c", first.AddDate(0, 0, 14)), runs[0])
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open("mysql", "dsn")
	assert.Error(t, err)
}
