package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Not-found errors
	ErrMsgEventNotFound     = "event not found"
	ErrMsgConditionNotFound = "condition not found"
	ErrMsgRewardNotFound    = "reward not found"
	ErrMsgNoActiveReward    = "no active reward for event"

	// Business precondition errors
	ErrMsgEventNotActive   = "event is not active"
	ErrMsgEventNotInWindow = "event is not in its active window"
	ErrMsgConditionsNotMet = "conditions not met"

	// Conflict errors
	ErrMsgAlreadyGranted = "reward already granted for this user and event"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgStorageUnavailable = "storage unavailable"
)

// Common domain errors.
// These errors should be used consistently across all layers.
// Wrap with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Not-found errors (HTTP 404 at the boundary)
	ErrEventNotFound     = errors.New(ErrMsgEventNotFound)
	ErrConditionNotFound = errors.New(ErrMsgConditionNotFound)
	ErrRewardNotFound    = errors.New(ErrMsgRewardNotFound)
	ErrNoActiveReward    = errors.New(ErrMsgNoActiveReward)

	// Business precondition errors (HTTP 400)
	ErrEventNotActive   = errors.New(ErrMsgEventNotActive)
	ErrEventNotInWindow = errors.New(ErrMsgEventNotInWindow)
	ErrConditionsNotMet = errors.New(ErrMsgConditionsNotMet)

	// Conflict errors (HTTP 409)
	ErrAlreadyGranted = errors.New(ErrMsgAlreadyGranted)

	// Validation errors (HTTP 422 at the registry boundary)
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Storage errors (HTTP 503). Infrastructure failures wrap this so
	// they are never mistaken for business-rule rejections.
	ErrStorageUnavailable = errors.New(ErrMsgStorageUnavailable)
)
