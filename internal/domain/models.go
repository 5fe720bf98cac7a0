// Package domain defines the persistence models for link runs, mention
// results, and feedback. These types are mapped with GORM and form the
// core data layer of the entity-linking service.
package domain

import "time"

// Run status values. A run starts Pending, then moves to exactly one
// terminal state once the linking engine has produced (or failed to
// produce) an Output.
const (
	RunStatusPending = "pending"
	RunStatusOK      = "ok"
	RunStatusError   = "error"
)

// LinkRun represents one entity-linking request against an article URL.
// It is an append-only audit record: runs are never deleted or updated
// except to move from Pending to a terminal Status.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the caller; indexed for efficient retrieval.
//   - ArticleURL: the URL resolved for OCR/NER acquisition (spec §6).
//   - RequestedText: optional mention text the caller scoped the request
//     to (spec §4.8's "when a specific mention was requested").
//   - Status: RunStatusPending/OK/Error.
//   - ErrorMessage: populated when Status is RunStatusError.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type LinkRun struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID        string    `json:"user_id"        gorm:"type:varchar(64);not null;index:idx_user_runs"`
	ArticleURL    string    `json:"article_url"    gorm:"type:text;not null"`
	RequestedText string    `json:"requested_text,omitempty" gorm:"type:text"`
	Status        string    `json:"status"         gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','ok','error')"`
	ErrorMessage  string    `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for LinkRun.
func (LinkRun) TableName() string { return "link_runs" }

// MentionResult represents one emitted linking record (spec §3 Result,
// §6 linkedNEs[i]) belonging to a LinkRun.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - RunID: foreign key to the owning run (indexed).
//   - Text: the mention's exact surface form; unique within a run.
//   - Reason: one of the spec §4.8/§8 reason strings.
//   - Prob: predicted probability, nil when no candidate was ranked.
//   - Link: chosen knowledge-base identifier, empty unless Reason is
//     "Predicted link".
//   - Label: the chosen candidate's label, for display; empty unless
//     Reason is "Predicted link".
//   - FeaturesJSON: the candidate's feature snapshot, JSON-encoded
//     (spec §3 Result "copied feature snapshot").
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type MentionResult struct {
	ID           string    `json:"id"             gorm:"type:char(36);primaryKey"`
	RunID        string    `json:"run_id"         gorm:"type:char(36);not null;index:idx_run_results,priority:1"`
	Text         string    `json:"text"           gorm:"type:text;not null"`
	Reason       string    `json:"reason"         gorm:"type:text;not null"`
	Prob         *float64  `json:"prob,omitempty"`
	Link         string    `json:"link,omitempty" gorm:"type:text"`
	Label        string    `json:"label,omitempty" gorm:"type:text"`
	FeaturesJSON string    `json:"-"              gorm:"type:text;column:features_json"`
	CreatedAt    time.Time `json:"created_at"     gorm:"index:idx_run_results,priority:2"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Run is the parent link run. MentionResults are cascade-deleted
	// if their run is removed (runs are never deleted in practice).
	Run LinkRun `json:"-" gorm:"foreignKey:RunID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MentionResult.
func (MentionResult) TableName() string { return "mention_results" }

// Feedback represents a user-provided rating on a specific mention result.
// A user can only leave one feedback entry per mention result (enforced
// by a unique index).
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - MentionResultID: foreign key to the rated result (unique per user).
//   - UserID: identifier of the feedback author (unique per result).
//   - Value: +1 (positive) or -1 (negative).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Feedback struct {
	ID              string    `json:"id"                gorm:"type:char(36);primaryKey"`
	MentionResultID string    `json:"mention_result_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_feedback_result_user"`
	UserID          string    `json:"user_id"           gorm:"type:varchar(64);not null;index;uniqueIndex:ux_feedback_result_user"`
	Value           int       `json:"value"             gorm:"not null;check:value IN (-1,1)"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Result is the rated mention result. Feedback is cascade-deleted if
	// the underlying result is removed.
	Result MentionResult `json:"-" gorm:"foreignKey:MentionResultID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Feedback.
func (Feedback) TableName() string { return "feedback" }
