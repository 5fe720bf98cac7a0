// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// MentionResult model.
package repo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jlonij/dac/internal/domain"
)

// CreateMentionResult inserts a new mention-result row.
func CreateMentionResult(db *gorm.DB, runID, text, reason string, prob *float64, link, label, featuresJSON string) (*domain.MentionResult, error) {
	m := &domain.MentionResult{
		ID:           uuid.NewString(),
		RunID:        runID,
		Text:         text,
		Reason:       reason,
		Prob:         prob,
		Link:         link,
		Label:        label,
		FeaturesJSON: featuresJSON,
		CreatedAt:    time.Now().UTC(),
	}
	return m, db.Create(m).Error
}

// ListMentionResults returns results ordered deterministically
// (CreatedAt ASC, ID ASC).
func ListMentionResults(db *gorm.DB, runID string, limit int) ([]domain.MentionResult, error) {
	var out []domain.MentionResult
	q := db.Where("run_id = ?", runID).Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountMentionResults uses a raw COUNT so a missing table surfaces as an
// error (as tests expect).
func CountMentionResults(db *gorm.DB, runID string) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM mention_results WHERE run_id = ?", runID).Scan(&total).Error
	return total, err
}

// ListMentionResultsPage returns a paginated slice ordered
// (CreatedAt ASC, ID ASC).
func ListMentionResultsPage(db *gorm.DB, runID string, offset, limit int) ([]domain.MentionResult, error) {
	var out []domain.MentionResult
	err := db.
		Where("run_id = ?", runID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetMentionResult fetches a mention result by ID.
func GetMentionResult(db *gorm.DB, id string) (*domain.MentionResult, error) {
	var m domain.MentionResult
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
