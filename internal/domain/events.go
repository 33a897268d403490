package domain

// Bus event type constants used for pub/sub subscriptions, the audit
// trail and metrics tracking.
//
// Event types follow the pattern: <entity>.<action>
const (
	// EventTypeActionRecorded is published when a user action is appended
	// to the action log
	EventTypeActionRecorded = "action.recorded"

	// EventTypeEventCreated is published when a campaign event and its
	// conditions are registered
	EventTypeEventCreated = "event.created"

	// EventTypeRewardCreated is published when a reward definition is
	// registered
	EventTypeRewardCreated = "reward.created"

	// EventTypeRewardGranted is published when the grant workflow
	// persists a new reward grant
	EventTypeRewardGranted = "reward.granted"

	// EventTypeRewardRejected is published when a grant request fails a
	// business precondition (inactive, out of window, conditions unmet,
	// duplicate)
	EventTypeRewardRejected = "reward.rejected"
)
