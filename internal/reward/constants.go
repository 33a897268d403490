package reward

// Rejection reasons used in metrics and rejection events
const (
	ReasonEventNotActive   = "event_not_active"
	ReasonEventNotInWindow = "event_not_in_window"
	ReasonConditionsNotMet = "conditions_not_met"
	ReasonAlreadyGranted   = "already_granted"
	ReasonNoActiveReward   = "no_active_reward"
)
