// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the LinkRun
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a run is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.RunService) which enforces business rules, caching,
// or cross-aggregate behavior.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jlonij/dac/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateRun inserts a new LinkRun row owned by userID for articleURL, with
// Status set to domain.RunStatusPending. The run ID is a randomly generated
// UUID (string), and CreatedAt is set to UTC.
func CreateRun(ctx context.Context, db *gorm.DB, userID, articleURL, requestedText string) (*domain.LinkRun, error) {
	r := &domain.LinkRun{
		ID:            uuid.NewString(),
		UserID:        userID,
		ArticleURL:    articleURL,
		RequestedText: requestedText,
		Status:        domain.RunStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListRuns returns all runs belonging to userID, ordered by creation time
// descending (most recent first). It returns an empty slice if the user has
// no runs. On DB error, it returns the error.
func ListRuns(ctx context.Context, db *gorm.DB, userID string) ([]domain.LinkRun, error) {
	var out []domain.LinkRun
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountRuns returns the total number of runs owned by userID.
func CountRuns(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.LinkRun{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListRunsPage returns a paginated slice of runs for userID, ordered by
// creation time descending. Use CountRuns to obtain the total for
// pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListRunsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.LinkRun, error) {
	var out []domain.LinkRun
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetRun fetches a single run by its ID and owner (userID). If the record
// does not exist, it returns ErrNotFound. On other DB errors, the raw error
// is returned.
func GetRun(ctx context.Context, db *gorm.DB, id, userID string) (*domain.LinkRun, error) {
	var r domain.LinkRun
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRunStatus moves a run identified by id and owned by userID to the
// given terminal status, recording errMsg when status is
// domain.RunStatusError. If no rows are affected, it returns ErrNotFound.
func UpdateRunStatus(ctx context.Context, db *gorm.DB, id, userID, status, errMsg string) error {
	res := db.WithContext(ctx).
		Model(&domain.LinkRun{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errMsg,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
