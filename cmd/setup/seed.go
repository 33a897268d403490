package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamifyhq/gamify/internal/bootstrap"
	"github.com/gamifyhq/gamify/internal/condition"
	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/event"
	"github.com/gamifyhq/gamify/internal/pubsub"
	"github.com/gamifyhq/gamify/internal/reward"
)

// seedDemoCampaign inserts a small demo campaign so a fresh install has
// something to evaluate against: a login-count event and a purchase-sum
// event, each with an active reward. Skipped when events already exist.
func seedDemoCampaign(ctx context.Context, dbPool *pgxpool.Pool) error {
	repos := bootstrap.InitializeRepositories(dbPool)

	existing, err := repos.Events.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("check existing events: %w", err)
	}
	if len(existing) > 0 {
		fmt.Println("Events table is not empty, skipping demo seed.")
		return nil
	}

	bus := pubsub.NewMemoryBus()
	eventService := event.NewService(repos.Events, bus)
	rewardService := reward.NewService(repos.Rewards, repos.Grants, repos.Events, condition.NewService(repos.Actions), bus)

	now := time.Now().UTC()
	nextWeek := now.AddDate(0, 0, 7)
	nextMonth := now.AddDate(0, 1, 0)

	loginEvent, err := eventService.CreateEvent(ctx, event.CreateEventInput{
		Name:        "Login Streak Bonus",
		Description: "Log in three times during the event and claim a point bonus.",
		StartDate:   now,
		EndDate:     nextWeek,
		Status:      domain.StatusActive,
		Conditions: []event.ConditionInput{
			{
				ActionType:      "login",
				AggregationMode: domain.AggregationCount,
				TargetThreshold: 3,
				Status:          domain.StatusActive,
				MatchFilter: domain.MatchFilter{
					domain.FieldUserID: domain.PlaceholderTerm(domain.PlaceholderUserID),
				},
				WindowStart: now,
				WindowEnd:   nextWeek,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("seed login event: %w", err)
	}

	purchaseEvent, err := eventService.CreateEvent(ctx, event.CreateEventInput{
		Name:        "Big Spender",
		Description: "Spend 100 or more during the event and unlock a discount coupon.",
		StartDate:   now,
		EndDate:     nextMonth,
		Status:      domain.StatusActive,
		Conditions: []event.ConditionInput{
			{
				ActionType:      "purchase",
				AggregationMode: domain.AggregationSum,
				SumField:        "amount",
				TargetThreshold: 100,
				Status:          domain.StatusActive,
				MatchFilter: domain.MatchFilter{
					domain.FieldUserID: domain.PlaceholderTerm(domain.PlaceholderUserID),
				},
				WindowStart: now,
				WindowEnd:   nextMonth,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("seed purchase event: %w", err)
	}

	rewards := []reward.CreateRewardInput{
		{
			EventID:     loginEvent.Event.ID,
			Name:        "Login Points",
			Description: "Point bonus for completing the login streak.",
			RewardType:  domain.RewardTypePoint,
			Value: domain.RewardValue{
				Amount:   100,
				Metadata: map[string]interface{}{"currency": "game_points"},
			},
			Status: domain.StatusActive,
		},
		{
			EventID:     purchaseEvent.Event.ID,
			Name:        "Spender Coupon",
			Description: "20 percent discount coupon for big spenders.",
			RewardType:  domain.RewardTypeCoupon,
			Value: domain.RewardValue{
				Amount:   1,
				Metadata: map[string]interface{}{"code": "SPEND20", "discount": "20%"},
			},
			Status: domain.StatusActive,
		},
		{
			EventID:     purchaseEvent.Event.ID,
			Name:        "Premium Box",
			Description: "Premium item box, granted alongside the coupon campaign.",
			RewardType:  domain.RewardTypeItem,
			Value: domain.RewardValue{
				Amount:   1,
				Metadata: map[string]interface{}{"itemId": "premium_box", "rarity": "legendary"},
			},
			Status: domain.StatusInactive,
		},
	}

	for _, input := range rewards {
		if _, err := rewardService.CreateReward(ctx, input); err != nil {
			return fmt.Errorf("seed reward %q: %w", input.Name, err)
		}
	}

	fmt.Println("Seeded demo campaign: 2 events, 3 rewards.")
	return nil
}
