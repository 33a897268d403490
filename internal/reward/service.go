package reward

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamifyhq/gamify/internal/condition"
	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/logger"
	"github.com/gamifyhq/gamify/internal/metrics"
	"github.com/gamifyhq/gamify/internal/pubsub"
	"github.com/gamifyhq/gamify/internal/repository"
)

// CreateRewardInput carries the fields of a new reward definition.
type CreateRewardInput struct {
	EventID     string
	Name        string
	Description string
	RewardType  domain.RewardType
	Value       domain.RewardValue
	Status      domain.Status
	WindowStart time.Time
	WindowEnd   time.Time
}

// Service covers the reward registry, the grant workflow and the
// grant history ledger.
type Service interface {
	// CreateReward registers a reward definition for an event
	CreateReward(ctx context.Context, input CreateRewardInput) (*domain.Reward, error)

	// GetReward returns one reward definition
	GetReward(ctx context.Context, rewardID string) (*domain.Reward, error)

	// ListRewards returns all reward definitions, newest first
	ListRewards(ctx context.Context) ([]domain.Reward, error)

	// ListRewardsByEvent returns an event's rewards in creation order
	ListRewardsByEvent(ctx context.Context, eventID string) ([]domain.Reward, error)

	// RequestReward runs the grant workflow for a user and event. At
	// most one grant per (user, event) pair ever succeeds, including
	// under concurrent requests.
	RequestReward(ctx context.Context, userID, eventID string) (*domain.RewardGrant, error)

	// GetUserHistory returns a user's grants, newest first
	GetUserHistory(ctx context.Context, userID string) ([]domain.RewardGrant, error)

	// GetAllHistory returns every grant, newest first
	GetAllHistory(ctx context.Context) ([]domain.RewardGrant, error)
}

type service struct {
	rewards   repository.RewardRegistry
	grants    repository.GrantLedger
	events    repository.EventRegistry
	evaluator condition.Service
	publisher pubsub.Bus
}

// NewService creates a new reward service
func NewService(
	rewards repository.RewardRegistry,
	grants repository.GrantLedger,
	events repository.EventRegistry,
	evaluator condition.Service,
	publisher pubsub.Bus,
) Service {
	return &service{
		rewards:   rewards,
		grants:    grants,
		events:    events,
		evaluator: evaluator,
		publisher: publisher,
	}
}

func (s *service) CreateReward(ctx context.Context, input CreateRewardInput) (*domain.Reward, error) {
	log := logger.FromContext(ctx)

	if !domain.IsValidID(input.EventID) {
		return nil, fmt.Errorf("%w: event id %q is not a valid id", domain.ErrInvalidInput, input.EventID)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: reward name is required", domain.ErrInvalidInput)
	}
	if !input.RewardType.IsValid() {
		return nil, fmt.Errorf("%w: invalid reward type %q", domain.ErrInvalidInput, input.RewardType)
	}
	if input.Value.Amount < 0 {
		return nil, fmt.Errorf("%w: reward amount must not be negative", domain.ErrInvalidInput)
	}
	if !input.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid reward status %q", domain.ErrInvalidInput, input.Status)
	}
	if !input.WindowStart.IsZero() && !input.WindowEnd.IsZero() && input.WindowEnd.Before(input.WindowStart) {
		return nil, fmt.Errorf("%w: reward window end precedes start", domain.ErrInvalidInput)
	}

	// The event must exist before a reward can reference it.
	event, err := s.events.GetEvent(ctx, input.EventID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reward := domain.Reward{
		ID:          domain.NewID(),
		EventID:     event.ID,
		Name:        input.Name,
		Description: input.Description,
		Type:        input.RewardType,
		Value:       input.Value,
		Status:      input.Status,
		WindowStart: input.WindowStart,
		WindowEnd:   input.WindowEnd,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// Rewards without their own window inherit the event's.
	if reward.WindowStart.IsZero() {
		reward.WindowStart = event.StartDate
	}
	if reward.WindowEnd.IsZero() {
		reward.WindowEnd = event.EndDate
	}

	if err := s.rewards.CreateReward(ctx, &reward); err != nil {
		return nil, fmt.Errorf("create reward: %w", err)
	}

	if err := s.publisher.Publish(ctx, pubsub.NewRewardCreatedEvent(reward)); err != nil {
		log.Warn("Failed to publish reward created event", "error", err, "reward_id", reward.ID)
	}

	log.Info("Reward registered", "reward_id", reward.ID, "event_id", reward.EventID, "type", reward.Type)
	return &reward, nil
}

func (s *service) GetReward(ctx context.Context, rewardID string) (*domain.Reward, error) {
	if !domain.IsValidID(rewardID) {
		return nil, fmt.Errorf("%w: reward id %q is not a valid id", domain.ErrInvalidInput, rewardID)
	}
	return s.rewards.GetReward(ctx, rewardID)
}

func (s *service) ListRewards(ctx context.Context) ([]domain.Reward, error) {
	return s.rewards.ListRewards(ctx)
}

func (s *service) ListRewardsByEvent(ctx context.Context, eventID string) ([]domain.Reward, error) {
	if !domain.IsValidID(eventID) {
		return nil, fmt.Errorf("%w: event id %q is not a valid id", domain.ErrInvalidInput, eventID)
	}
	return s.rewards.ListRewardsByEvent(ctx, eventID)
}

// RequestReward validates the event, evaluates its conditions, picks
// the active reward and appends a COMPLETED grant. The pre-insert
// duplicate check is advisory only; the ledger's write-time uniqueness
// guarantee is what actually closes the race between concurrent
// requests.
func (s *service) RequestReward(ctx context.Context, userID, eventID string) (*domain.RewardGrant, error) {
	log := logger.FromContext(ctx)

	if !domain.IsValidID(userID) {
		return nil, fmt.Errorf("%w: user id %q is not a valid id", domain.ErrInvalidInput, userID)
	}
	if !domain.IsValidID(eventID) {
		return nil, fmt.Errorf("%w: event id %q is not a valid id", domain.ErrInvalidInput, eventID)
	}

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if event.Status != domain.StatusActive {
		return nil, s.reject(ctx, userID, eventID, domain.ErrEventNotActive, ReasonEventNotActive)
	}
	if !event.InWindow(now) {
		return nil, s.reject(ctx, userID, eventID, domain.ErrEventNotInWindow, ReasonEventNotInWindow)
	}

	conditions, err := s.events.ListConditionsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	satisfied, _, err := s.evaluator.EvaluateAll(ctx, conditions, userID, now)
	if err != nil {
		return nil, fmt.Errorf("evaluate conditions: %w", err)
	}
	if !satisfied {
		return nil, s.reject(ctx, userID, eventID, domain.ErrConditionsNotMet, ReasonConditionsNotMet)
	}

	// Advisory duplicate check for a friendly error before the insert.
	existing, err := s.grants.FindActiveGrant(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, s.reject(ctx, userID, eventID, domain.ErrAlreadyGranted, ReasonAlreadyGranted)
	}

	reward, err := s.selectActiveReward(ctx, eventID, now)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveReward) {
			return nil, s.reject(ctx, userID, eventID, domain.ErrNoActiveReward, ReasonNoActiveReward)
		}
		return nil, err
	}

	grant := domain.RewardGrant{
		ID:             domain.NewID(),
		UserID:         userID,
		EventID:        eventID,
		RewardID:       reward.ID,
		RewardSnapshot: *reward,
		Status:         domain.GrantCompleted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.grants.AppendGrant(ctx, &grant); err != nil {
		// The loser of a concurrent race lands here via the ledger's
		// uniqueness guarantee.
		if errors.Is(err, domain.ErrAlreadyGranted) {
			return nil, s.reject(ctx, userID, eventID, domain.ErrAlreadyGranted, ReasonAlreadyGranted)
		}
		return nil, fmt.Errorf("append grant: %w", err)
	}

	metrics.GrantsCompleted.WithLabelValues(string(reward.Type)).Inc()
	if err := s.publisher.Publish(ctx, pubsub.NewRewardGrantedEvent(grant)); err != nil {
		log.Warn("Failed to publish reward granted event", "error", err, "grant_id", grant.ID)
	}

	log.Info("Reward granted",
		"grant_id", grant.ID,
		"user_id", userID,
		"event_id", eventID,
		"reward_id", reward.ID)

	return &grant, nil
}

// selectActiveReward returns the event's first ACTIVE in-window reward
// in creation order.
func (s *service) selectActiveReward(ctx context.Context, eventID string, at time.Time) (*domain.Reward, error) {
	rewards, err := s.rewards.ListRewardsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for i := range rewards {
		if rewards[i].Status == domain.StatusActive && rewards[i].InWindow(at) {
			return &rewards[i], nil
		}
	}
	return nil, domain.ErrNoActiveReward
}

// reject publishes a rejection event and returns the domain error.
func (s *service) reject(ctx context.Context, userID, eventID string, cause error, reason string) error {
	log := logger.FromContext(ctx)

	metrics.GrantsRejected.WithLabelValues(reason).Inc()
	if err := s.publisher.Publish(ctx, pubsub.NewRewardRejectedEvent(userID, eventID, reason)); err != nil {
		log.Warn("Failed to publish reward rejected event", "error", err, "user_id", userID)
	}

	log.Debug("Reward request rejected", "user_id", userID, "event_id", eventID, "reason", reason)
	return cause
}

func (s *service) GetUserHistory(ctx context.Context, userID string) ([]domain.RewardGrant, error) {
	if !domain.IsValidID(userID) {
		return nil, fmt.Errorf("%w: user id %q is not a valid id", domain.ErrInvalidInput, userID)
	}
	return s.grants.FindGrantsByUser(ctx, userID)
}

func (s *service) GetAllHistory(ctx context.Context) ([]domain.RewardGrant, error) {
	return s.grants.FindAllGrants(ctx)
}
