package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"WeeklyWatch/internal/domain"
)

func TestPrintRuns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := printRuns(&buf, []domain.RunRecord{{
		StartedAt:   time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC),
		Status:      domain.RunPartial,
		TechCount:   10,
		MarketCount: 3,
		PublicCount: 4,
		Delivered:   []string{"slack"},
		Failed:      []string{"email"},
		ReportPath:  "historique_reports/weekly_report_06-10-2025.pdf",
	}})
	if err != nil {
		t.Fatalf("printRuns: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", buf.String())
	}
	for _, want := range []string{"partial", "slack", "email", "weekly_report_06-10-2025.pdf"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("row %q misses %q", lines[1], want)
		}
	}
}

func TestRootCommandTree(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	for _, name := range []string{"run", "once", "history"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %s not registered: %v", name, err)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Fatal("missing --config flag")
	}
}
