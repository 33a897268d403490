package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/logger"
	"github.com/gamifyhq/gamify/internal/reward"
)

// CreateRewardRequest represents a request to register a reward for an event.
// An omitted window inherits the owning event's start and end dates.
type CreateRewardRequest struct {
	EventID     string                 `json:"event_id" validate:"required,objectid"`
	Name        string                 `json:"name" validate:"required,max=200,excludesall=\x00\n\r\t"`
	Description string                 `json:"description,omitempty" validate:"max=1000"`
	RewardType  string                 `json:"reward_type" validate:"required,rewardtype"`
	Amount      float64                `json:"amount" validate:"gte=0"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Status      string                 `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	WindowStart *time.Time             `json:"window_start,omitempty"`
	WindowEnd   *time.Time             `json:"window_end,omitempty"`
}

// HandleCreateReward handles POST requests to register a reward definition
// @Summary Create reward
// @Description Register a reward definition for an event
// @Tags rewards
// @Accept json
// @Produce json
// @Param request body CreateRewardRequest true "Reward details"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /rewards [post]
func HandleCreateReward(svc reward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateRewardRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create reward"); err != nil {
			return
		}

		input := reward.CreateRewardInput{
			EventID:     req.EventID,
			Name:        req.Name,
			Description: req.Description,
			RewardType:  domain.RewardType(strings.ToUpper(req.RewardType)),
			Value: domain.RewardValue{
				Amount:   req.Amount,
				Metadata: req.Metadata,
			},
			Status: statusOrDefault(req.Status),
		}
		if req.WindowStart != nil {
			input.WindowStart = *req.WindowStart
		}
		if req.WindowEnd != nil {
			input.WindowEnd = *req.WindowEnd
		}

		created, err := svc.CreateReward(r.Context(), input)
		if err != nil {
			respondServiceError(w, r, "create reward", err)
			return
		}

		log.Info("Reward created", "reward_id", created.ID, "event_id", created.EventID, "reward_type", created.Type)

		respondJSON(w, http.StatusCreated, DataResponse{
			Message: MsgRewardCreatedSuccess,
			Data:    created,
		})
	}
}

// HandleGetReward handles GET requests for a single reward definition
// @Summary Get reward
// @Description Get a reward definition by id
// @Tags rewards
// @Produce json
// @Param rewardID path string true "Reward ID"
// @Success 200 {object} DataResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /rewards/{rewardID} [get]
func HandleGetReward(svc reward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rewardID := chi.URLParam(r, "rewardID")
		if !domain.IsValidID(rewardID) {
			respondError(w, http.StatusUnprocessableEntity, ErrMsgInvalidID)
			return
		}

		found, err := svc.GetReward(r.Context(), rewardID)
		if err != nil {
			respondServiceError(w, r, "get reward", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: found})
	}
}

// HandleListRewards handles GET requests for all reward definitions
// @Summary List rewards
// @Description List reward definitions, newest first
// @Tags rewards
// @Produce json
// @Success 200 {object} DataResponse
// @Failure 500 {object} ErrorResponse
// @Router /rewards [get]
func HandleListRewards(svc reward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rewards, err := svc.ListRewards(r.Context())
		if err != nil {
			respondServiceError(w, r, "list rewards", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: rewards})
	}
}

// HandleListEventRewards handles GET requests for an event's rewards
// @Summary List event rewards
// @Description List an event's rewards in creation order
// @Tags rewards
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} DataResponse
// @Failure 422 {object} ErrorResponse
// @Router /events/{eventID}/rewards [get]
func HandleListEventRewards(svc reward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventID")
		if !domain.IsValidID(eventID) {
			respondError(w, http.StatusUnprocessableEntity, ErrMsgInvalidID)
			return
		}

		rewards, err := svc.ListRewardsByEvent(r.Context(), eventID)
		if err != nil {
			respondServiceError(w, r, "list event rewards", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: rewards})
	}
}

// RequestRewardRequest represents a request to run the grant workflow
type RequestRewardRequest struct {
	UserID  string `json:"user_id" validate:"required,objectid"`
	EventID string `json:"event_id" validate:"required,objectid"`
}

// HandleRequestReward handles POST requests to claim an event's reward
// @Summary Request reward
// @Description Run the grant workflow: validate the event, evaluate conditions and grant at most once
// @Tags rewards
// @Accept json
// @Produce json
// @Param request body RequestRewardRequest true "Grant request"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /rewards/request [post]
func HandleRequestReward(svc reward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RequestRewardRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Request reward"); err != nil {
			return
		}

		grant, err := svc.RequestReward(r.Context(), req.UserID, req.EventID)
		if err != nil {
			respondServiceError(w, r, "request reward", err)
			return
		}

		log.Info("Reward granted",
			"grant_id", grant.ID,
			"user_id", grant.UserID,
			"event_id", grant.EventID,
			"reward_id", grant.RewardID)

		respondJSON(w, http.StatusCreated, DataResponse{
			Message: MsgRewardGrantedSuccess,
			Data:    grant,
		})
	}
}

// HandleGetRewardHistory handles GET requests for the grant ledger.
// With a user_id query parameter it returns that user's grants,
// otherwise the full ledger.
// @Summary Reward history
// @Description List reward grants, newest first, optionally scoped to one user
// @Tags rewards
// @Produce json
// @Param user_id query string false "User ID"
// @Success 200 {object} DataResponse
// @Failure 422 {object} ErrorResponse
// @Router /rewards/history [get]
func HandleGetRewardHistory(svc reward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")

		var (
			grants []domain.RewardGrant
			err    error
		)
		if userID != "" {
			grants, err = svc.GetUserHistory(r.Context(), userID)
		} else {
			grants, err = svc.GetAllHistory(r.Context())
		}
		if err != nil {
			respondServiceError(w, r, "get reward history", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: grants})
	}
}
