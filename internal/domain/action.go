package domain

import "time"

// ActionTarget identifies what an action was performed on.
type ActionTarget struct {
	TargetType string `json:"target_type"` // e.g. 'User', 'Product'
	TargetID   string `json:"target_id"`
}

// ActionRecord is one append-only fact about what a user did.
// Records are immutable once written; the evaluator only ever reads them.
type ActionRecord struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	ActionType string                 `json:"action_type"` // open vocabulary: 'login', 'purchase', 'invite_friend', ...
	Target     ActionTarget           `json:"target"`
	Custom     map[string]interface{} `json:"custom,omitempty"` // domain-specific fields, e.g. purchase amount
	OccurredAt time.Time              `json:"occurred_at"`
	RecordedAt time.Time              `json:"recorded_at"`
}

// Common action types. The vocabulary is open; these are the ones the
// seed data and tests use.
const (
	ActionTypeLogin        = "login"
	ActionTypePurchase     = "purchase"
	ActionTypeInviteFriend = "invite_friend"
)
