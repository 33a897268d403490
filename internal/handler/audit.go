package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gamifyhq/gamify/internal/audit"
	"github.com/gamifyhq/gamify/internal/repository"
)

// HandleGetAuditEntries handles GET requests for the bus-event audit trail
// @Summary Query audit trail
// @Description List recorded bus events, newest first, with optional filters
// @Tags admin
// @Produce json
// @Param user_id query string false "User ID"
// @Param event_type query string false "Bus event type"
// @Param since query string false "RFC3339 lower bound"
// @Param limit query int false "Maximum entries to return"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/audit [get]
func HandleGetAuditEntries(svc audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter repository.AuditFilter

		if userID := r.URL.Query().Get("user_id"); userID != "" {
			filter.UserID = &userID
		}
		if eventType := r.URL.Query().Get("event_type"); eventType != "" {
			filter.EventType = &eventType
		}
		if raw := r.URL.Query().Get("since"); raw != "" {
			since, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid since parameter: must be RFC3339")
				return
			}
			filter.Since = &since
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
				return
			}
			filter.Limit = limit
		}

		entries, err := svc.GetEntries(r.Context(), filter)
		if err != nil {
			respondServiceError(w, r, "get audit entries", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: entries})
	}
}
