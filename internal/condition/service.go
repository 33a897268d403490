package condition

import (
	"context"
	"fmt"
	"time"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/logger"
	"github.com/gamifyhq/gamify/internal/metrics"
	"github.com/gamifyhq/gamify/internal/repository"
)

// Service evaluates achievement conditions against the action log
type Service interface {
	// Evaluate computes the current aggregate for one condition and
	// compares it against the threshold. Inactive and out-of-window
	// conditions are unsatisfied without touching the action log.
	Evaluate(ctx context.Context, cond domain.Condition, userID string, at time.Time) (domain.Evaluation, error)

	// EvaluateAll evaluates every condition for a user. All conditions
	// must be satisfied; evaluation stops at the first miss. An empty
	// condition list is satisfied.
	EvaluateAll(ctx context.Context, conds []domain.Condition, userID string, at time.Time) (bool, []domain.Evaluation, error)
}

type service struct {
	actions repository.ActionLog
}

// NewService creates a new condition evaluation service
func NewService(actions repository.ActionLog) Service {
	return &service{actions: actions}
}

func (s *service) Evaluate(ctx context.Context, cond domain.Condition, userID string, at time.Time) (domain.Evaluation, error) {
	log := logger.FromContext(ctx)

	if cond.Status != domain.StatusActive {
		log.Debug("Condition inactive, not satisfied", "condition_id", cond.ID)
		return domain.Evaluation{}, nil
	}
	if !cond.InWindow(at) {
		log.Debug("Condition out of window, not satisfied", "condition_id", cond.ID)
		return domain.Evaluation{}, nil
	}

	resolved := cond.MatchFilter.Resolve(domain.FilterBindings{
		UserID:    userID,
		StartDate: cond.WindowStart,
		EndDate:   cond.WindowEnd,
	})

	query := repository.ActionQuery{
		Equals: resolved,
		From:   cond.WindowStart,
		To:     cond.WindowEnd,
	}
	if cond.ActionType != "" {
		query.Equals[domain.FieldActionType] = cond.ActionType
	}

	var current float64
	switch cond.AggregationMode {
	case domain.AggregationCount:
		count, err := s.actions.CountActions(ctx, query)
		if err != nil {
			return domain.Evaluation{}, fmt.Errorf("count actions for condition %s: %w", cond.ID, err)
		}
		current = float64(count)
	case domain.AggregationSum:
		if cond.SumField == "" {
			return domain.Evaluation{}, fmt.Errorf("%w: condition %s has SUM aggregation without a sum field", domain.ErrInvalidInput, cond.ID)
		}
		sum, err := s.actions.SumActions(ctx, query, cond.SumField)
		if err != nil {
			return domain.Evaluation{}, fmt.Errorf("sum actions for condition %s: %w", cond.ID, err)
		}
		current = sum
	default:
		return domain.Evaluation{}, fmt.Errorf("%w: unknown aggregation mode %q", domain.ErrInvalidInput, cond.AggregationMode)
	}

	// Threshold is inclusive.
	eval := domain.Evaluation{
		Satisfied:    current >= cond.TargetThreshold,
		CurrentValue: current,
	}

	metrics.ConditionEvaluations.WithLabelValues(string(cond.AggregationMode), satisfiedLabel(eval.Satisfied)).Inc()
	log.Debug("Condition evaluated",
		"condition_id", cond.ID,
		"current", current,
		"threshold", cond.TargetThreshold,
		"satisfied", eval.Satisfied)

	return eval, nil
}

func (s *service) EvaluateAll(ctx context.Context, conds []domain.Condition, userID string, at time.Time) (bool, []domain.Evaluation, error) {
	evals := make([]domain.Evaluation, 0, len(conds))
	for _, cond := range conds {
		eval, err := s.Evaluate(ctx, cond, userID, at)
		if err != nil {
			return false, evals, err
		}
		evals = append(evals, eval)
		if !eval.Satisfied {
			return false, evals, nil
		}
	}
	return true, evals, nil
}

func satisfiedLabel(satisfied bool) string {
	if satisfied {
		return "satisfied"
	}
	return "unsatisfied"
}
