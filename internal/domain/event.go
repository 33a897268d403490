package domain

import "time"

// Event is a time-boxed campaign bundling one or more conditions and
// offering reward(s). ConditionIDs always names exactly the set of
// conditions whose EventID references this event; the registry keeps
// the two in sync.
type Event struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Status       Status    `json:"status"`
	ConditionIDs []string  `json:"condition_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// InWindow reports whether t falls inside [StartDate, EndDate], inclusive.
func (e Event) InWindow(t time.Time) bool {
	return !t.Before(e.StartDate) && !t.After(e.EndDate)
}
