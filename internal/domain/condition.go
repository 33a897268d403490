package domain

import "time"

// Status is the lifecycle status shared by events, conditions and rewards.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// AggregationMode determines how matching actions are reduced to a number.
type AggregationMode string

const (
	AggregationCount AggregationMode = "COUNT" // tally matching actions
	AggregationSum   AggregationMode = "SUM"   // total a numeric field across matching actions
)

// IsValid reports whether m is a known aggregation mode.
func (m AggregationMode) IsValid() bool {
	return m == AggregationCount || m == AggregationSum
}

// Condition is a rule over aggregated actions that must hold before a
// reward can be granted. Conditions are created together with their
// owning event and are immutable afterwards.
type Condition struct {
	ID              string          `json:"id"`
	EventID         string          `json:"event_id"`
	ActionType      string          `json:"action_type"`
	AggregationMode AggregationMode `json:"aggregation_mode"`
	SumField        string          `json:"sum_field,omitempty"` // dotted path into ActionRecord.Custom, required for SUM
	TargetThreshold float64         `json:"target_threshold"`
	Status          Status          `json:"status"`
	MatchFilter     MatchFilter     `json:"match_filter"`
	WindowStart     time.Time       `json:"window_start"`
	WindowEnd       time.Time       `json:"window_end"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// InWindow reports whether t falls inside the condition's evaluation
// window. Bounds are inclusive.
func (c Condition) InWindow(t time.Time) bool {
	return !t.Before(c.WindowStart) && !t.After(c.WindowEnd)
}

// Evaluation is the result of checking one condition for one user.
// An unsatisfied condition is a normal result, never an error.
type Evaluation struct {
	Satisfied    bool    `json:"satisfied"`
	CurrentValue float64 `json:"current_value"`
}
