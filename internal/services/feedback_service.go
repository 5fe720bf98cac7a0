// Package services – FeedbackService
//
// This file implements the FeedbackService, which governs how users leave
// feedback (-1 or +1) on mention results. It enforces business rules (result
// existence, uniqueness) and persists feedback atomically in the database.
// Service-level errors (e.g. ErrInvalidFeedback, ErrMentionResultNotFound,
// ErrDuplicateFeedback) are returned for predictable cases so handlers can
// map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/jlonij/dac/internal/repo"
)

// FeedbackService implements the use-cases around mention result feedback.
// It validates the operation (existence, uniqueness) and persists the
// feedback using the provided GORM handle. The service is context-aware and
// safe to use inside transactions (it will open its own transaction per call).
type FeedbackService struct {
	// DB is the database handle used for all feedback operations.
	// The handle may be a plain *gorm.DB or a transaction-bound handle.
	DB *gorm.DB
}

// Leave records a feedback value for mentionResultID on behalf of userID.
//
// Semantics and validation:
//   - value must be exactly -1 (negative) or 1 (positive); otherwise ErrInvalidFeedback.
//   - mentionResultID must exist; otherwise ErrMentionResultNotFound.
//   - A user may leave at most one feedback per result; attempting to do so
//     again yields ErrDuplicateFeedback.
//
// Concurrency & atomicity:
//   - The operation runs inside a transaction to ensure the existence check
//     and the insert are atomic.
//
// Errors:
//   - Returns the service-level sentinel errors (ErrInvalidFeedback,
//     ErrMentionResultNotFound, ErrDuplicateFeedback) for the validation
//     cases above.
//   - Returns the underlying DB error for unexpected failures.
func (s *FeedbackService) Leave(ctx context.Context, userID, mentionResultID string, value int) error {
	if value != -1 && value != 1 {
		return ErrInvalidFeedback
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Load the result and verify it exists.
		if _, err := repo.GetMentionResult(tx, mentionResultID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) || isNotFound(err) {
				return ErrMentionResultNotFound
			}
			return err
		}

		// 2) Insert feedback with (mention_result_id, user_id) uniqueness semantics.
		if err := repo.CreateFeedback(ctx, tx, mentionResultID, userID, value); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return ErrDuplicateFeedback
			}
			return err
		}
		return nil
	})
}

// isNotFound treats repo-level not found sentinels as "not found" in a
// driver-agnostic way. It also checks gorm.ErrRecordNotFound for safety.
func isNotFound(err error) bool {
	if errors.Is(err, repo.ErrNotFound) {
		return true
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
