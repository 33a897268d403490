package reward

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gamifyhq/gamify/internal/condition"
	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/pubsub"
	"github.com/gamifyhq/gamify/internal/repository"
)

const (
	testUserID  = "507f1f77bcf86cd799439011"
	testEventID = "507f191e810c19729de860ea"
)

// stubEvaluator is a fixed-outcome condition.Service
type stubEvaluator struct {
	satisfied bool
	err       error
}

func (s stubEvaluator) Evaluate(ctx context.Context, cond domain.Condition, userID string, at time.Time) (domain.Evaluation, error) {
	return domain.Evaluation{Satisfied: s.satisfied}, s.err
}

func (s stubEvaluator) EvaluateAll(ctx context.Context, conds []domain.Condition, userID string, at time.Time) (bool, []domain.Evaluation, error) {
	if s.err != nil {
		return false, nil, s.err
	}
	return s.satisfied, nil, nil
}

// memoryGrantLedger enforces the blocking-status uniqueness invariant
// under a mutex, the way the storage unique index does.
type memoryGrantLedger struct {
	mu     sync.Mutex
	grants []domain.RewardGrant
}

func (l *memoryGrantLedger) AppendGrant(ctx context.Context, grant *domain.RewardGrant) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, g := range l.grants {
		if g.UserID == grant.UserID && g.EventID == grant.EventID && g.Status.Blocking() {
			return fmt.Errorf("%w: user %s event %s", domain.ErrAlreadyGranted, grant.UserID, grant.EventID)
		}
	}
	l.grants = append(l.grants, *grant)
	return nil
}

func (l *memoryGrantLedger) FindActiveGrant(ctx context.Context, userID, eventID string) (*domain.RewardGrant, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.grants {
		g := l.grants[i]
		if g.UserID == userID && g.EventID == eventID && g.Status.Blocking() {
			return &g, nil
		}
	}
	return nil, nil
}

func (l *memoryGrantLedger) FindGrantsByUser(ctx context.Context, userID string) ([]domain.RewardGrant, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.RewardGrant
	for _, g := range l.grants {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (l *memoryGrantLedger) FindAllGrants(ctx context.Context) ([]domain.RewardGrant, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.RewardGrant{}, l.grants...), nil
}

func activeEvent() *domain.Event {
	now := time.Now().UTC()
	return &domain.Event{
		ID:        testEventID,
		Name:      "login streak",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		Status:    domain.StatusActive,
	}
}

func activeReward() domain.Reward {
	now := time.Now().UTC()
	return domain.Reward{
		ID:          domain.NewID(),
		EventID:     testEventID,
		Name:        "100 points",
		Type:        domain.RewardTypePoint,
		Value:       domain.RewardValue{Amount: 100},
		Status:      domain.StatusActive,
		WindowStart: now.Add(-time.Hour),
		WindowEnd:   now.Add(time.Hour),
	}
}

type fixture struct {
	rewards   *MockRewardRegistry
	events    *MockEventRegistry
	ledger    *memoryGrantLedger
	bus       *pubsub.MemoryBus
	published map[pubsub.Type][]pubsub.Event
	svc       Service
}

func newFixture(t *testing.T, evaluator stubEvaluator) *fixture {
	t.Helper()

	f := &fixture{
		rewards:   new(MockRewardRegistry),
		events:    new(MockEventRegistry),
		ledger:    &memoryGrantLedger{},
		bus:       pubsub.NewMemoryBus(),
		published: make(map[pubsub.Type][]pubsub.Event),
	}

	var mu sync.Mutex
	for _, et := range []pubsub.Type{pubsub.RewardCreated, pubsub.RewardGranted, pubsub.RewardRejected} {
		et := et
		f.bus.Subscribe(et, func(ctx context.Context, evt pubsub.Event) error {
			mu.Lock()
			defer mu.Unlock()
			f.published[et] = append(f.published[et], evt)
			return nil
		})
	}

	f.svc = NewService(f.rewards, f.ledger, f.events, evaluator, f.bus)
	return f
}

func TestRequestReward_Success(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: true})
	rw := activeReward()

	f.events.On("GetEvent", mock.Anything, testEventID).Return(activeEvent(), nil)
	f.events.On("ListConditionsByEvent", mock.Anything, testEventID).Return([]domain.Condition{}, nil)
	f.rewards.On("ListRewardsByEvent", mock.Anything, testEventID).Return([]domain.Reward{rw}, nil)

	grant, err := f.svc.RequestReward(context.Background(), testUserID, testEventID)
	require.NoError(t, err)
	require.NotNil(t, grant)

	assert.Equal(t, domain.GrantCompleted, grant.Status)
	assert.Equal(t, testUserID, grant.UserID)
	assert.Equal(t, rw.ID, grant.RewardID)
	assert.Equal(t, rw.Value.Amount, grant.RewardSnapshot.Value.Amount)
	assert.True(t, domain.IsValidID(grant.ID))

	require.Len(t, f.published[pubsub.RewardGranted], 1)
	assert.Empty(t, f.published[pubsub.RewardRejected])
}

func TestRequestReward_EventNotFound(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: true})

	f.events.On("GetEvent", mock.Anything, testEventID).Return(nil, domain.ErrEventNotFound)

	_, err := f.svc.RequestReward(context.Background(), testUserID, testEventID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestRequestReward_EventNotActive(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: true})

	event := activeEvent()
	event.Status = domain.StatusInactive
	f.events.On("GetEvent", mock.Anything, testEventID).Return(event, nil)

	_, err := f.svc.RequestReward(context.Background(), testUserID, testEventID)
	assert.ErrorIs(t, err, domain.ErrEventNotActive)
	require.Len(t, f.published[pubsub.RewardRejected], 1)
}

func TestRequestReward_EventNotInWindow(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: true})

	event := activeEvent()
	event.StartDate = time.Now().UTC().Add(24 * time.Hour)
	event.EndDate = time.Now().UTC().Add(48 * time.Hour)
	f.events.On("GetEvent", mock.Anything, testEventID).Return(event, nil)

	_, err := f.svc.RequestReward(context.Background(), testUserID, testEventID)
	assert.ErrorIs(t, err, domain.ErrEventNotInWindow)
}

func TestRequestReward_ConditionsNotMet(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: false})

	f.events.On("GetEvent", mock.Anything, testEventID).Return(activeEvent(), nil)
	f.events.On("ListConditionsByEvent", mock.Anything, testEventID).Return([]domain.Condition{{ID: domain.NewID()}}, nil)

	_, err := f.svc.RequestReward(context.Background(), testUserID, testEventID)
	assert.ErrorIs(t, err, domain.ErrConditionsNotMet)

	// Nothing may reach the ledger on rejection.
	grants, _ := f.ledger.FindAllGrants(context.Background())
	assert.Empty(t, grants)
	require.Len(t, f.published[pubsub.RewardRejected], 1)

	payload, err := pubsub.DecodePayload[pubsub.RewardRejectedPayloadV1](f.published[pubsub.RewardRejected][0].Payload)
	require.NoError(t, err)
	assert.Equal(t, ReasonConditionsNotMet, payload.Reason)
}

func TestRequestReward_Duplicate(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: true})
	rw := activeReward()

	f.events.On("GetEvent", mock.Anything, testEventID).Return(activeEvent(), nil)
	f.events.On("ListConditionsByEvent", mock.Anything, testEventID).Return([]domain.Condition{}, nil)
	f.rewards.On("ListRewardsByEvent", mock.Anything, testEventID).Return([]domain.Reward{rw}, nil)

	_, err := f.svc.RequestReward(context.Background(), testUserID, testEventID)
	require.NoError(t, err)

	_, err = f.svc.RequestReward(context.Background(), testUserID, testEventID)
	assert.ErrorIs(t, err, domain.ErrAlreadyGranted)

	grants, _ := f.ledger.FindAllGrants(context.Background())
	assert.Len(t, grants, 1)
}

func TestRequestReward_NoActiveReward(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: true})

	inactive := activeReward()
	inactive.Status = domain.StatusInactive
	expired := activeReward()
	expired.WindowEnd = time.Now().UTC().Add(-time.Hour)

	f.events.On("GetEvent", mock.Anything, testEventID).Return(activeEvent(), nil)
	f.events.On("ListConditionsByEvent", mock.Anything, testEventID).Return([]domain.Condition{}, nil)
	f.rewards.On("ListRewardsByEvent", mock.Anything, testEventID).Return([]domain.Reward{inactive, expired}, nil)

	_, err := f.svc.RequestReward(context.Background(), testUserID, testEventID)
	assert.ErrorIs(t, err, domain.ErrNoActiveReward)
}

func TestRequestReward_ConcurrentSingleGrant(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: true})
	rw := activeReward()

	f.events.On("GetEvent", mock.Anything, testEventID).Return(activeEvent(), nil)
	f.events.On("ListConditionsByEvent", mock.Anything, testEventID).Return([]domain.Condition{}, nil)
	f.rewards.On("ListRewardsByEvent", mock.Anything, testEventID).Return([]domain.Reward{rw}, nil)

	const workers = 50
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.RequestReward(context.Background(), testUserID, testEventID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			assert.ErrorIs(t, err, domain.ErrAlreadyGranted)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent request may win")

	grants, _ := f.ledger.FindAllGrants(context.Background())
	assert.Len(t, grants, 1)
}

func TestRequestReward_SnapshotInsulatedFromEdits(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: true})
	rw := activeReward()
	rewardList := []domain.Reward{rw}

	f.events.On("GetEvent", mock.Anything, testEventID).Return(activeEvent(), nil)
	f.events.On("ListConditionsByEvent", mock.Anything, testEventID).Return([]domain.Condition{}, nil)
	f.rewards.On("ListRewardsByEvent", mock.Anything, testEventID).Return(rewardList, nil)

	grant, err := f.svc.RequestReward(context.Background(), testUserID, testEventID)
	require.NoError(t, err)

	// Later edits to the reward definition must not reach the ledger.
	rewardList[0].Value.Amount = 999
	rewardList[0].Name = "edited"

	stored, err := f.ledger.FindActiveGrant(context.Background(), testUserID, testEventID)
	require.NoError(t, err)
	assert.Equal(t, float64(100), stored.RewardSnapshot.Value.Amount)
	assert.Equal(t, "100 points", stored.RewardSnapshot.Name)
	assert.Equal(t, grant.ID, stored.ID)
}

func TestRequestReward_InvalidIDs(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: true})

	_, err := f.svc.RequestReward(context.Background(), "bad", testEventID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.RequestReward(context.Background(), testUserID, "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f.events.AssertNotCalled(t, "GetEvent", mock.Anything, mock.Anything)
}

func TestCreateReward(t *testing.T) {
	f := newFixture(t, stubEvaluator{})

	event := activeEvent()
	f.events.On("GetEvent", mock.Anything, testEventID).Return(event, nil)
	f.rewards.On("CreateReward", mock.Anything, mock.MatchedBy(func(r *domain.Reward) bool {
		return r.EventID == testEventID && domain.IsValidID(r.ID) &&
			r.WindowStart.Equal(event.StartDate) && r.WindowEnd.Equal(event.EndDate)
	})).Return(nil)

	// Window defaults to the event window when unset.
	reward, err := f.svc.CreateReward(context.Background(), CreateRewardInput{
		EventID:    testEventID,
		Name:       "100 points",
		RewardType: domain.RewardTypePoint,
		Value:      domain.RewardValue{Amount: 100},
		Status:     domain.StatusActive,
	})
	require.NoError(t, err)
	require.NotNil(t, reward)

	require.Len(t, f.published[pubsub.RewardCreated], 1)
	f.rewards.AssertExpectations(t)
}

func TestCreateReward_Validation(t *testing.T) {
	f := newFixture(t, stubEvaluator{})

	valid := CreateRewardInput{
		EventID:    testEventID,
		Name:       "prize",
		RewardType: domain.RewardTypeItem,
		Status:     domain.StatusActive,
	}

	cases := []struct {
		name   string
		mutate func(*CreateRewardInput)
	}{
		{"invalid event id", func(in *CreateRewardInput) { in.EventID = "nope" }},
		{"missing name", func(in *CreateRewardInput) { in.Name = "" }},
		{"invalid type", func(in *CreateRewardInput) { in.RewardType = "GOLD" }},
		{"negative amount", func(in *CreateRewardInput) { in.Value.Amount = -5 }},
		{"invalid status", func(in *CreateRewardInput) { in.Status = "ARCHIVED" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			_, err := f.svc.CreateReward(context.Background(), input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateReward_EventNotFound(t *testing.T) {
	f := newFixture(t, stubEvaluator{})

	f.events.On("GetEvent", mock.Anything, testEventID).Return(nil, domain.ErrEventNotFound)

	_, err := f.svc.CreateReward(context.Background(), CreateRewardInput{
		EventID:    testEventID,
		Name:       "prize",
		RewardType: domain.RewardTypePoint,
		Status:     domain.StatusActive,
	})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	f.rewards.AssertNotCalled(t, "CreateReward", mock.Anything, mock.Anything)
}

func TestGetUserHistory(t *testing.T) {
	f := newFixture(t, stubEvaluator{satisfied: true})
	rw := activeReward()

	f.events.On("GetEvent", mock.Anything, testEventID).Return(activeEvent(), nil)
	f.events.On("ListConditionsByEvent", mock.Anything, testEventID).Return([]domain.Condition{}, nil)
	f.rewards.On("ListRewardsByEvent", mock.Anything, testEventID).Return([]domain.Reward{rw}, nil)

	_, err := f.svc.RequestReward(context.Background(), testUserID, testEventID)
	require.NoError(t, err)

	history, err := f.svc.GetUserHistory(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, testUserID, history[0].UserID)

	other, err := f.svc.GetUserHistory(context.Background(), "507f1f77bcf86cd799439099")
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = f.svc.GetUserHistory(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// memoryActionLog is a slice-backed repository.ActionLog so the real
// evaluator can run against recorded actions inside workflow tests.
type memoryActionLog struct {
	records []domain.ActionRecord
}

func (l *memoryActionLog) Append(ctx context.Context, record domain.ActionRecord) error {
	l.records = append(l.records, record)
	return nil
}

func (l *memoryActionLog) matching(q repository.ActionQuery) []domain.ActionRecord {
	var out []domain.ActionRecord
	for _, r := range l.records {
		if !q.From.IsZero() && r.OccurredAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && r.OccurredAt.After(q.To) {
			continue
		}
		if !r.Matches(q.Equals) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (l *memoryActionLog) CountActions(ctx context.Context, q repository.ActionQuery) (int64, error) {
	return int64(len(l.matching(q))), nil
}

func (l *memoryActionLog) SumActions(ctx context.Context, q repository.ActionQuery, sumField string) (float64, error) {
	path := strings.TrimPrefix(sumField, domain.FieldCustomPrefix)
	var total float64
	for _, r := range l.matching(q) {
		if n, ok := domain.LookupNumber(r.Custom, path); ok {
			total += n
		}
	}
	return total, nil
}

func (l *memoryActionLog) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActionRecord, error) {
	var out []domain.ActionRecord
	for _, r := range l.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// TestRequestReward_FullEvaluation runs the grant workflow over the real
// evaluator: record logins until a COUNT threshold of 3 is reached, then
// claim once and verify the duplicate request conflicts.
func TestRequestReward_FullEvaluation(t *testing.T) {
	now := time.Now().UTC()

	cond := domain.Condition{
		ID:              domain.NewID(),
		EventID:         testEventID,
		ActionType:      domain.ActionTypeLogin,
		AggregationMode: domain.AggregationCount,
		TargetThreshold: 3,
		Status:          domain.StatusActive,
		MatchFilter: domain.MatchFilter{
			domain.FieldUserID: domain.PlaceholderTerm(domain.PlaceholderUserID),
		},
		WindowStart: now.Add(-time.Hour),
		WindowEnd:   now.Add(time.Hour),
	}
	rw := activeReward()

	events := new(MockEventRegistry)
	events.On("GetEvent", mock.Anything, testEventID).Return(activeEvent(), nil)
	events.On("ListConditionsByEvent", mock.Anything, testEventID).Return([]domain.Condition{cond}, nil)

	rewards := new(MockRewardRegistry)
	rewards.On("ListRewardsByEvent", mock.Anything, testEventID).Return([]domain.Reward{rw}, nil)

	actions := &memoryActionLog{}
	svc := NewService(rewards, &memoryGrantLedger{}, events, condition.NewService(actions), pubsub.NewMemoryBus())

	login := func(userID string, at time.Time) domain.ActionRecord {
		return domain.ActionRecord{
			ID:         domain.NewID(),
			UserID:     userID,
			ActionType: domain.ActionTypeLogin,
			OccurredAt: at,
			RecordedAt: at,
		}
	}

	ctx := context.Background()
	require.NoError(t, actions.Append(ctx, login(testUserID, now.Add(-30*time.Minute))))
	require.NoError(t, actions.Append(ctx, login(testUserID, now.Add(-20*time.Minute))))

	// Two logins fall short of the threshold.
	_, err := svc.RequestReward(ctx, testUserID, testEventID)
	require.ErrorIs(t, err, domain.ErrConditionsNotMet)

	// Another user's login never counts toward this user's total.
	require.NoError(t, actions.Append(ctx, login("507f1f77bcf86cd799439099", now.Add(-15*time.Minute))))
	_, err = svc.RequestReward(ctx, testUserID, testEventID)
	require.ErrorIs(t, err, domain.ErrConditionsNotMet)

	require.NoError(t, actions.Append(ctx, login(testUserID, now.Add(-10*time.Minute))))

	grant, err := svc.RequestReward(ctx, testUserID, testEventID)
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.Equal(t, domain.GrantCompleted, grant.Status)
	assert.Equal(t, rw.ID, grant.RewardID)
	assert.Equal(t, rw.Value.Amount, grant.RewardSnapshot.Value.Amount)

	_, err = svc.RequestReward(ctx, testUserID, testEventID)
	assert.ErrorIs(t, err, domain.ErrAlreadyGranted)
}
