package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jlonij/dac/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestRunsStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, _, err := RunsStats(context.Background(), db, "u1")
	if err == nil {
		t.Fatalf("expected error due to missing link_runs table")
	}
}

func TestRunsStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.LinkRun{})
	count, maxAt, err := RunsStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("RunsStats error: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestRunsStats_Success_FilterAndMax(t *testing.T) {
	db := newTestDB(t, &domain.LinkRun{})

	// Seed runs for two users; ensure UpdatedAt is exactly what we set.
	t1 := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC) // max for u1
	t3 := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)   // for other user

	c1 := &domain.LinkRun{ID: "c1", UserID: "u1", ArticleURL: "a", CreatedAt: t1, UpdatedAt: t1}
	c2 := &domain.LinkRun{ID: "c2", UserID: "u1", ArticleURL: "b", CreatedAt: t2, UpdatedAt: t2}
	c3 := &domain.LinkRun{ID: "c3", UserID: "u2", ArticleURL: "x", CreatedAt: t3, UpdatedAt: t3}

	if err := db.Create(c1).Error; err != nil {
		t.Fatalf("seed c1: %v", err)
	}
	if err := db.Create(c2).Error; err != nil {
		t.Fatalf("seed c2: %v", err)
	}
	if err := db.Create(c3).Error; err != nil {
		t.Fatalf("seed c3: %v", err)
	}

	count, maxAt, err := RunsStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("RunsStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected maxUpdatedAt %v, got %v", t2, maxAt)
	}
}

// Force the second query (SELECT updated_at ...) to fail by renaming the column.
func TestRunsStats_SelectLatest_ErrorPath(t *testing.T) {
	db := newTestDB(t, &domain.LinkRun{})

	// Seed at least one row so count > 0
	now := time.Now().UTC()
	if err := db.Create(&domain.LinkRun{
		ID:         "cx",
		UserID:     "uerr",
		ArticleURL: "x",
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error; err != nil {
		t.Fatalf("seed run: %v", err)
	}

	// Break the follow-up select by removing/renaming updated_at.
	if err := db.Exec(`ALTER TABLE link_runs RENAME COLUMN updated_at TO updated_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}

	_, _, err := RunsStats(context.Background(), db, "uerr")
	if err == nil {
		t.Fatalf("expected error from latest-updated select after column rename")
	}
}

func TestMentionResultsStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, _, err := MentionResultsStats(context.Background(), db, "c1")
	if err == nil {
		t.Fatalf("expected error due to missing mention_results table")
	}
}

func TestMentionResultsStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.MentionResult{})
	count, maxAt, err := MentionResultsStats(context.Background(), db, "c1")
	if err != nil {
		t.Fatalf("MentionResultsStats error: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestMentionResultsStats_Success_FilterAndMax(t *testing.T) {
	db := newTestDB(t, &domain.MentionResult{})

	// Seed results in two runs with precise UpdatedAt.
	t1 := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 4, 1, 12, 5, 0, 0, time.UTC) // max for cX
	t3 := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)  // other run

	m1 := &domain.MentionResult{ID: "m1", RunID: "cX", Text: "hi", Reason: "Nothing found", CreatedAt: t1, UpdatedAt: t1}
	m2 := &domain.MentionResult{ID: "m2", RunID: "cX", Text: "hey", Reason: "Predicted link", CreatedAt: t2, UpdatedAt: t2}
	m3 := &domain.MentionResult{ID: "m3", RunID: "cY", Text: "yo", Reason: "Nothing found", CreatedAt: t3, UpdatedAt: t3}

	if err := db.Create(m1).Error; err != nil {
		t.Fatalf("seed m1: %v", err)
	}
	if err := db.Create(m2).Error; err != nil {
		t.Fatalf("seed m2: %v", err)
	}
	if err := db.Create(m3).Error; err != nil {
		t.Fatalf("seed m3: %v", err)
	}

	count, maxAt, err := MentionResultsStats(context.Background(), db, "cX")
	if err != nil {
		t.Fatalf("MentionResultsStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected maxUpdatedAt %v, got %v", t2, maxAt)
	}
}

// Force the second query (SELECT updated_at ...) to fail by renaming the column.
func TestMentionResultsStats_SelectLatest_ErrorPath(t *testing.T) {
	db := newTestDB(t, &domain.MentionResult{})

	// Seed at least one row so count > 0
	now := time.Now().UTC()
	if err := db.Create(&domain.MentionResult{
		ID:        "mx",
		RunID:     "cerr",
		Text:      "x",
		Reason:    "Nothing found",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error; err != nil {
		t.Fatalf("seed result: %v", err)
	}

	// Break the follow-up select by removing/renaming updated_at.
	if err := db.Exec(`ALTER TABLE mention_results RENAME COLUMN updated_at TO updated_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}

	_, _, err := MentionResultsStats(context.Background(), db, "cerr")
	if err == nil {
		t.Fatalf("expected error from latest-updated select after column rename")
	}
}
