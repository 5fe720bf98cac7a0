// Package services defines the business logic for runs, mention results, and
// feedback. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Run and mention-result related errors.
var (
	// ErrRunNotFound indicates that the requested run does not exist or is
	// not accessible to the current user.
	ErrRunNotFound = errors.New("run not found")

	// ErrEmptyArticleURL is returned when a request to create a run contains
	// an empty article URL.
	ErrEmptyArticleURL = errors.New("article url is empty")

	// ErrTooLong is returned when a request to create a run exceeds the
	// maximum configured length limit for the requested text.
	ErrTooLong = errors.New("requested text too long")

	// ErrInvalidFeedback is returned when a feedback value is outside the
	// allowed set (currently -1 or 1).
	ErrInvalidFeedback = errors.New("feedback value must be -1 or 1")

	// ErrMentionResultNotFound indicates that the requested mention result
	// does not exist or is not accessible to the current user.
	ErrMentionResultNotFound = errors.New("mention result not found")

	// ErrDuplicateFeedback is returned when a user attempts to leave feedback
	// on a mention result that they have already rated.
	ErrDuplicateFeedback = errors.New("feedback already exists")
)
