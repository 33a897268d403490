package domain

import "time"

// RewardType tags what kind of value a reward carries. The core treats
// it as an opaque label; settlement systems interpret it.
type RewardType string

const (
	RewardTypePoint  RewardType = "POINT"
	RewardTypeItem   RewardType = "ITEM"
	RewardTypeCoupon RewardType = "COUPON"
)

// IsValid reports whether the reward type is one of the known labels.
func (t RewardType) IsValid() bool {
	switch t {
	case RewardTypePoint, RewardTypeItem, RewardTypeCoupon:
		return true
	}
	return false
}

// RewardValue is the payload granted to the user. Metadata is an open
// map for reward-type specific fields (coupon codes, item ids, ...).
type RewardValue struct {
	Amount   float64                `json:"amount"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Reward is a grantable prize attached to an event. Many rewards may
// belong to one event; any ACTIVE reward inside its window is eligible
// for selection.
type Reward struct {
	ID          string      `json:"id"`
	EventID     string      `json:"event_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        RewardType  `json:"type"`
	Value       RewardValue `json:"value"`
	WindowStart time.Time   `json:"window_start"` // defaults to the owning event's window
	WindowEnd   time.Time   `json:"window_end"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// InWindow reports whether t falls inside [WindowStart, WindowEnd], inclusive.
func (r Reward) InWindow(t time.Time) bool {
	return !t.Before(r.WindowStart) && !t.After(r.WindowEnd)
}

// GrantStatus is the settlement status of a reward grant.
type GrantStatus string

const (
	GrantPending   GrantStatus = "PENDING"
	GrantCompleted GrantStatus = "COMPLETED"
	GrantFailed    GrantStatus = "FAILED"
)

// Blocking reports whether a grant in this status counts against the
// one-grant-per-user-per-event invariant.
func (s GrantStatus) Blocking() bool {
	return s == GrantPending || s == GrantCompleted
}

// RewardGrant is one ledger entry recording that a user received a
// reward for an event. RewardSnapshot captures the reward's field
// values at grant time so later reward edits never rewrite history.
// At most one grant with a blocking status may exist per (user, event).
type RewardGrant struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	EventID        string      `json:"event_id"`
	RewardID       string      `json:"reward_id"`
	RewardSnapshot Reward      `json:"reward_snapshot"`
	Status         GrantStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
