package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameActionsRecorded      = "actions_recorded_total"
	MetricNameConditionEvaluations = "condition_evaluations_total"
	MetricNameEventsRegistered     = "gamification_events_registered_total"
	MetricNameRewardsRegistered    = "rewards_registered_total"
	MetricNameGrantsCompleted      = "reward_grants_completed_total"
	MetricNameGrantsRejected       = "reward_grants_rejected_total"
	MetricNamePointsGranted        = "reward_points_granted_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextActionsRecorded      = "Total number of user actions recorded"
	HelpTextConditionEvaluations = "Total number of condition evaluations"
	HelpTextEventsRegistered     = "Total number of gamification events registered"
	HelpTextRewardsRegistered    = "Total number of rewards registered"
	HelpTextGrantsCompleted      = "Total number of completed reward grants"
	HelpTextGrantsRejected       = "Total number of rejected reward grant requests"
	HelpTextPointsGranted        = "Total point amount granted via POINT rewards"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelType       = "type"
	LabelActionType = "action_type"
	LabelMode       = "mode"
	LabelOutcome    = "outcome"
	LabelRewardType = "reward_type"
	LabelReason     = "reason"
)

// ============================================================================
// Event Payload Field Names
// ============================================================================

// Field names used when extracting values from event payloads
const (
	PayloadFieldActionType = "action_type"
	PayloadFieldRewardType = "reward_type"
	PayloadFieldAmount     = "amount"
	PayloadFieldReason     = "reason"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadNotMap = "Event payload is not a map"
	LogMsgMetricsRecorded    = "Metrics recorded for event"
)
