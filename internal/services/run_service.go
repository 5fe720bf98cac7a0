// Package services – RunService
//
// This file implements the RunService, which manages the lifecycle of link
// runs: one run per (user, article URL) submission. It enforces ownership
// rules and coordinates repository operations for creating, listing (with
// pagination), and fetching runs. Running the actual entity-linking pipeline
// and persisting its MentionResult rows is the responsibility of LinkService.
//
// Service-level errors (e.g., ErrRunNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/jlonij/dac/internal/domain"
)

// RunRepo defines the repository contract required by RunService.
// Implementations are responsible for persistence of run aggregates.
type RunRepo interface {
	// CreateRun inserts a new run row for the given user, article URL, and
	// (optional) requested mention text.
	CreateRun(ctx context.Context, db *gorm.DB, userID, articleURL, requestedText string) (*domain.LinkRun, error)

	// ListRuns returns all runs belonging to the user (non-paginated).
	ListRuns(ctx context.Context, db *gorm.DB, userID string) ([]domain.LinkRun, error)

	// GetRun fetches a run by ID ensuring it belongs to the user.
	GetRun(ctx context.Context, db *gorm.DB, id, userID string) (*domain.LinkRun, error)

	// CountRuns returns the total number of runs for pagination.
	CountRuns(ctx context.Context, db *gorm.DB, userID string) (int64, error)

	// ListRunsPage returns a page of runs belonging to the user.
	ListRunsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.LinkRun, error)
}

// RunService provides run-level operations such as creating, listing, and
// fetching link runs. It enforces input validation and ownership constraints.
type RunService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the run repository used by this service.
	Repo RunRepo

	// MaxRequestedTextRunes caps the stored requested mention text by rune length.
	MaxRequestedTextRunes int
}

// NewRunService constructs a RunService with sane defaults.
func NewRunService(db *gorm.DB, r RunRepo) *RunService {
	return &RunService{
		DB:                    db,
		Repo:                  r,
		MaxRequestedTextRunes: 255,
	}
}

// Create inserts a new run owned by userID for articleURL, scoped to
// requestedText when non-empty (spec §4.8: only the cluster containing that
// text is followed through a split).
func (s *RunService) Create(ctx context.Context, userID, articleURL, requestedText string) (*domain.LinkRun, error) {
	articleURL = strings.TrimSpace(articleURL)
	if articleURL == "" {
		return nil, ErrEmptyArticleURL
	}
	requestedText = strings.TrimSpace(requestedText)
	if s.MaxRequestedTextRunes > 0 && len([]rune(requestedText)) > s.MaxRequestedTextRunes {
		return nil, ErrTooLong
	}
	return s.Repo.CreateRun(ctx, s.DB, userID, articleURL, requestedText)
}

// List returns all runs for a user (non-paginated).
// Prefer ListPage for scalability on large datasets.
func (s *RunService) List(ctx context.Context, userID string) ([]domain.LinkRun, error) {
	return s.Repo.ListRuns(ctx, s.DB, userID)
}

// ListPage returns a page of runs for a user (paginated).
// It applies defaults for invalid page/pageSize and returns total count.
func (s *RunService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.LinkRun, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountRuns(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.LinkRun{}, 0, nil
	}

	items, err := s.Repo.ListRunsPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// Get fetches a single run, ensuring it belongs to the given user.
func (s *RunService) Get(ctx context.Context, userID, runID string) (*domain.LinkRun, error) {
	run, err := s.Repo.GetRun(ctx, s.DB, runID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}
