package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gamifyhq/gamify/internal/action"
	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/logger"
)

// RecordActionRequest represents a request to append one user action.
// An omitted occurred_at defaults to the server's current time.
type RecordActionRequest struct {
	UserID     string                 `json:"user_id" validate:"required,objectid"`
	ActionType string                 `json:"action_type" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Target     *ActionTargetRequest   `json:"target,omitempty"`
	Custom     map[string]interface{} `json:"custom,omitempty"`
	OccurredAt *time.Time             `json:"occurred_at,omitempty"`
}

// ActionTargetRequest names what the action acted on
type ActionTargetRequest struct {
	TargetType string `json:"target_type" validate:"max=100"`
	TargetID   string `json:"target_id" validate:"max=100"`
}

// HandleRecordAction handles POST requests to append a user action
// @Summary Record action
// @Description Append one immutable user action to the log
// @Tags actions
// @Accept json
// @Produce json
// @Param request body RecordActionRequest true "Action details"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /actions [post]
func HandleRecordAction(svc action.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RecordActionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Record action"); err != nil {
			return
		}

		input := action.RecordInput{
			UserID:     req.UserID,
			ActionType: req.ActionType,
			Custom:     req.Custom,
		}
		if req.Target != nil {
			input.Target = domain.ActionTarget{
				TargetType: req.Target.TargetType,
				TargetID:   req.Target.TargetID,
			}
		}
		if req.OccurredAt != nil {
			input.OccurredAt = *req.OccurredAt
		}

		record, err := svc.Record(r.Context(), input)
		if err != nil {
			respondServiceError(w, r, "record action", err)
			return
		}

		log.Info("Action recorded", "action_id", record.ID, "user_id", record.UserID, "action_type", record.ActionType)

		respondJSON(w, http.StatusCreated, DataResponse{
			Message: MsgActionRecordedSuccess,
			Data:    record,
		})
	}
}

// HandleListUserActions handles GET requests for a user's recent actions
// @Summary List user actions
// @Description List a user's most recent actions
// @Tags actions
// @Produce json
// @Param user_id query string true "User ID"
// @Param limit query int false "Maximum records to return"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /actions [get]
func HandleListUserActions(svc action.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		limit := 0
		if raw := GetOptionalQueryParam(r, "limit", ""); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
				return
			}
			limit = parsed
		}

		records, err := svc.ListByUser(r.Context(), userID, limit)
		if err != nil {
			respondServiceError(w, r, "list user actions", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: records})
	}
}
