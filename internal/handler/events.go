package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/event"
	"github.com/gamifyhq/gamify/internal/logger"
)

// ConditionRequest is one condition attached to a new event.
// An omitted window inherits the event's start and end dates.
type ConditionRequest struct {
	ActionType      string             `json:"action_type" validate:"required,max=100"`
	AggregationMode string             `json:"aggregation_mode" validate:"required,oneof=COUNT SUM"`
	SumField        string             `json:"sum_field,omitempty" validate:"max=200"`
	TargetThreshold float64            `json:"target_threshold" validate:"gte=0"`
	Status          string             `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	MatchFilter     domain.MatchFilter `json:"match_filter,omitempty"`
	WindowStart     *time.Time         `json:"window_start,omitempty"`
	WindowEnd       *time.Time         `json:"window_end,omitempty"`
}

// CreateEventRequest represents a request to register an event with its conditions
type CreateEventRequest struct {
	Name        string             `json:"name" validate:"required,max=200,excludesall=\x00\n\r\t"`
	Description string             `json:"description,omitempty" validate:"max=1000"`
	StartDate   time.Time          `json:"start_date" validate:"required"`
	EndDate     time.Time          `json:"end_date" validate:"required"`
	Status      string             `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	Conditions  []ConditionRequest `json:"conditions" validate:"dive"`
}

// HandleCreateEvent handles POST requests to register a new event
// @Summary Create event
// @Description Register an event together with its conditions atomically
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event details"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [post]
func HandleCreateEvent(svc event.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateEventRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create event"); err != nil {
			return
		}

		input := event.CreateEventInput{
			Name:        req.Name,
			Description: req.Description,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Status:      statusOrDefault(req.Status),
			Conditions:  make([]event.ConditionInput, 0, len(req.Conditions)),
		}
		for _, c := range req.Conditions {
			ci := event.ConditionInput{
				ActionType:      c.ActionType,
				AggregationMode: domain.AggregationMode(c.AggregationMode),
				SumField:        c.SumField,
				TargetThreshold: c.TargetThreshold,
				Status:          statusOrDefault(c.Status),
				MatchFilter:     c.MatchFilter,
			}
			if c.WindowStart != nil {
				ci.WindowStart = *c.WindowStart
			}
			if c.WindowEnd != nil {
				ci.WindowEnd = *c.WindowEnd
			}
			input.Conditions = append(input.Conditions, ci)
		}

		detail, err := svc.CreateEvent(r.Context(), input)
		if err != nil {
			respondServiceError(w, r, "create event", err)
			return
		}

		log.Info("Event created", "event_id", detail.Event.ID, "conditions", len(detail.Conditions))

		respondJSON(w, http.StatusCreated, DataResponse{
			Message: MsgEventCreatedSuccess,
			Data:    detail,
		})
	}
}

// HandleGetEvent handles GET requests for a single event with its conditions
// @Summary Get event
// @Description Get an event and its conditions by id
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} DataResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /events/{eventID} [get]
func HandleGetEvent(svc event.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventID")
		if !domain.IsValidID(eventID) {
			respondError(w, http.StatusUnprocessableEntity, ErrMsgInvalidID)
			return
		}

		detail, err := svc.GetEvent(r.Context(), eventID)
		if err != nil {
			respondServiceError(w, r, "get event", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: detail})
	}
}

// HandleListEvents handles GET requests for all registered events
// @Summary List events
// @Description List registered events, newest first
// @Tags events
// @Produce json
// @Success 200 {object} DataResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [get]
func HandleListEvents(svc event.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context())
		if err != nil {
			respondServiceError(w, r, "list events", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: events})
	}
}

// HandleGetCondition handles GET requests for a single condition
// @Summary Get condition
// @Description Get a condition by id
// @Tags events
// @Produce json
// @Param conditionID path string true "Condition ID"
// @Success 200 {object} DataResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /conditions/{conditionID} [get]
func HandleGetCondition(svc event.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conditionID := chi.URLParam(r, "conditionID")
		if !domain.IsValidID(conditionID) {
			respondError(w, http.StatusUnprocessableEntity, ErrMsgInvalidID)
			return
		}

		cond, err := svc.GetCondition(r.Context(), conditionID)
		if err != nil {
			respondServiceError(w, r, "get condition", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: cond})
	}
}

// statusOrDefault parses a request status string, defaulting to ACTIVE
// when the field was omitted.
func statusOrDefault(s string) domain.Status {
	if s == "" {
		return domain.StatusActive
	}
	return domain.Status(s)
}
