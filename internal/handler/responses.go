package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// Helper functions for responding

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode to the buffer first
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Log the error - we can't write to response at this point since headers are sent
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	// Write the buffer to the response
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
// These messages are derived from domain errors and avoid leaking internals
const (
	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgUnavailableError   = "Service is temporarily unavailable. Please try again later."

	// Registry messages
	ErrMsgEventNotFoundError     = "Event not found"
	ErrMsgConditionNotFoundError = "Condition not found"
	ErrMsgRewardNotFoundError    = "Reward not found"

	// Grant workflow messages
	ErrMsgEventNotActiveError   = "Event is not active"
	ErrMsgEventNotInWindowError = "Event is outside its active period"
	ErrMsgConditionsNotMetError = "Conditions for this event are not met yet"
	ErrMsgAlreadyGrantedError   = "Reward was already granted for this event"
	ErrMsgNoActiveRewardError   = "No grantable reward is configured for this event"

	// Input messages
	ErrMsgInvalidInputError = "Invalid input. Please check your request."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
// This function converts internal service errors to appropriate HTTP status codes and messages
// that users can understand and act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	// Check for specific domain errors
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, ErrMsgEventNotFoundError
	case errors.Is(err, domain.ErrConditionNotFound):
		return http.StatusNotFound, ErrMsgConditionNotFoundError
	case errors.Is(err, domain.ErrRewardNotFound):
		return http.StatusNotFound, ErrMsgRewardNotFoundError
	case errors.Is(err, domain.ErrNoActiveReward):
		return http.StatusNotFound, ErrMsgNoActiveRewardError
	case errors.Is(err, domain.ErrEventNotActive):
		return http.StatusBadRequest, ErrMsgEventNotActiveError
	case errors.Is(err, domain.ErrEventNotInWindow):
		return http.StatusBadRequest, ErrMsgEventNotInWindowError
	case errors.Is(err, domain.ErrConditionsNotMet):
		return http.StatusBadRequest, ErrMsgConditionsNotMetError
	case errors.Is(err, domain.ErrAlreadyGranted):
		return http.StatusConflict, ErrMsgAlreadyGrantedError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	// For wrapped errors with domain errors as the base, try unwrapping
	unwrapped := errors.Unwrap(err)
	if unwrapped != nil && unwrapped != err {
		// Recursively check the unwrapped error
		return mapServiceErrorToUserMessage(unwrapped)
	}

	// Unmapped errors with short messages pass through verbatim
	errMsg := err.Error()
	if errMsg != "" && len(errMsg) < 200 {
		return http.StatusInternalServerError, errMsg
	}

	// Default to generic message for very long or system-level errors
	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs a failed service call and writes the mapped
// error response. opName names the operation for the log line.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())
	status, message := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		log.Error("Service call failed", "operation", opName, "error", err)
	} else {
		log.Warn("Request rejected", "operation", opName, "status", status, "error", err)
	}
	respondError(w, status, message)
}
