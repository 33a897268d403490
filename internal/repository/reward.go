package repository

import (
	"context"

	"github.com/gamifyhq/gamify/internal/domain"
)

// RewardRegistry stores reward definitions.
type RewardRegistry interface {
	CreateReward(ctx context.Context, reward *domain.Reward) error

	// GetReward returns domain.ErrRewardNotFound when absent
	GetReward(ctx context.Context, rewardID string) (*domain.Reward, error)

	// ListRewards returns all rewards ordered by creation time descending
	ListRewards(ctx context.Context) ([]domain.Reward, error)

	// ListRewardsByEvent returns the event's rewards in creation order
	ListRewardsByEvent(ctx context.Context, eventID string) ([]domain.Reward, error)
}

// GrantLedger is the append-only reward grant history.
//
// AppendGrant must enforce the anti-double-grant invariant at write
// time: inserting a second grant with a blocking status for the same
// (user, event) pair fails with domain.ErrAlreadyGranted, regardless of
// what concurrent requests observed beforehand.
type GrantLedger interface {
	AppendGrant(ctx context.Context, grant *domain.RewardGrant) error

	// FindActiveGrant returns the existing PENDING or COMPLETED grant for
	// the pair, or nil when there is none.
	FindActiveGrant(ctx context.Context, userID, eventID string) (*domain.RewardGrant, error)

	FindGrantsByUser(ctx context.Context, userID string) ([]domain.RewardGrant, error)

	FindAllGrants(ctx context.Context) ([]domain.RewardGrant, error)
}
