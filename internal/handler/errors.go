package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Path parameter error messages
	ErrMsgInvalidID = "Invalid id: must be a 24 character hex string"

	// Parameter validation error messages
	ErrMsgInvalidLimit = "Invalid limit parameter"

	// Operation error messages
	ErrMsgCreateEventFailed   = "Failed to create event"
	ErrMsgGetEventFailed      = "Failed to retrieve event"
	ErrMsgListEventsFailed    = "Failed to list events"
	ErrMsgCreateRewardFailed  = "Failed to create reward"
	ErrMsgGetRewardFailed     = "Failed to retrieve reward"
	ErrMsgListRewardsFailed   = "Failed to list rewards"
	ErrMsgRequestRewardFailed = "Failed to request reward"
	ErrMsgGetHistoryFailed    = "Failed to retrieve reward history"
	ErrMsgRecordActionFailed  = "Failed to record action"
	ErrMsgListActionsFailed   = "Failed to list actions"
)

// Success messages for API responses
const (
	MsgEventCreatedSuccess   = "Event created successfully"
	MsgRewardCreatedSuccess  = "Reward created successfully"
	MsgRewardGrantedSuccess  = "Reward granted successfully"
	MsgActionRecordedSuccess = "Action recorded successfully"
)
