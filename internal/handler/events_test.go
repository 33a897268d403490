package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/event"
)

const (
	testUserID  = "507f1f77bcf86cd799439011"
	testEventID = "507f191e810c19729de860ea"
)

// MockEventService mocks the event.Service interface
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateEvent(ctx context.Context, input event.CreateEventInput) (*event.EventDetail, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.EventDetail), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, eventID string) (*event.EventDetail, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.EventDetail), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventService) GetCondition(ctx context.Context, conditionID string) (*domain.Condition, error) {
	args := m.Called(ctx, conditionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Condition), args.Error(1)
}

func testEventDetail() *event.EventDetail {
	now := time.Now().UTC()
	return &event.EventDetail{
		Event: domain.Event{
			ID:           testEventID,
			Name:         "Summer Login Streak",
			StartDate:    now.Add(-time.Hour),
			EndDate:      now.Add(24 * time.Hour),
			Status:       domain.StatusActive,
			ConditionIDs: []string{"507f1f77bcf86cd799439021"},
		},
		Conditions: []domain.Condition{
			{
				ID:              "507f1f77bcf86cd799439021",
				EventID:         testEventID,
				ActionType:      "login",
				AggregationMode: domain.AggregationCount,
				TargetThreshold: 3,
				Status:          domain.StatusActive,
			},
		},
	}
}

func TestHandleCreateEvent(t *testing.T) {
	InitValidator()

	now := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockEventService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success",
			requestBody: CreateEventRequest{
				Name:      "Summer Login Streak",
				StartDate: now,
				EndDate:   now.Add(24 * time.Hour),
				Conditions: []ConditionRequest{
					{ActionType: "login", AggregationMode: "COUNT", TargetThreshold: 3},
				},
			},
			setupMock: func(m *MockEventService) {
				m.On("CreateEvent", mock.Anything, mock.MatchedBy(func(in event.CreateEventInput) bool {
					return in.Name == "Summer Login Streak" &&
						in.Status == domain.StatusActive &&
						len(in.Conditions) == 1 &&
						in.Conditions[0].AggregationMode == domain.AggregationCount
				})).Return(testEventDetail(), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   MsgEventCreatedSuccess,
		},
		{
			name: "Invalid Request - Missing Name",
			requestBody: CreateEventRequest{
				StartDate: now,
				EndDate:   now.Add(24 * time.Hour),
			},
			setupMock:      func(m *MockEventService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequestSummary,
		},
		{
			name: "Invalid Request - Bad Aggregation Mode",
			requestBody: CreateEventRequest{
				Name:      "Event",
				StartDate: now,
				EndDate:   now.Add(24 * time.Hour),
				Conditions: []ConditionRequest{
					{ActionType: "login", AggregationMode: "AVG", TargetThreshold: 1},
				},
			},
			setupMock:      func(m *MockEventService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequestSummary,
		},
		{
			name: "Service Validation Error",
			requestBody: CreateEventRequest{
				Name:      "Backwards Window",
				StartDate: now.Add(24 * time.Hour),
				EndDate:   now,
			},
			setupMock: func(m *MockEventService) {
				m.On("CreateEvent", mock.Anything, mock.Anything).
					Return(nil, domain.ErrInvalidInput)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   ErrMsgInvalidInputError,
		},
		{
			name: "Service Error",
			requestBody: CreateEventRequest{
				Name:      "Event",
				StartDate: now,
				EndDate:   now.Add(24 * time.Hour),
			},
			setupMock: func(m *MockEventService) {
				m.On("CreateEvent", mock.Anything, mock.Anything).
					Return(nil, errors.New("storage exploded"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "storage exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockEventService)
			tt.setupMock(mockSvc)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			HandleCreateEvent(mockSvc)(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestHandleGetEvent(t *testing.T) {
	tests := []struct {
		name           string
		eventID        string
		setupMock      func(*MockEventService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "Success",
			eventID: testEventID,
			setupMock: func(m *MockEventService) {
				m.On("GetEvent", mock.Anything, testEventID).Return(testEventDetail(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Summer Login Streak",
		},
		{
			name:    "Not Found",
			eventID: "507f1f77bcf86cd799439099",
			setupMock: func(m *MockEventService) {
				m.On("GetEvent", mock.Anything, "507f1f77bcf86cd799439099").
					Return(nil, domain.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   ErrMsgEventNotFoundError,
		},
		{
			name:           "Invalid ID",
			eventID:        "not-a-hex-id",
			setupMock:      func(m *MockEventService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   ErrMsgInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockEventService)
			tt.setupMock(mockSvc)

			router := chi.NewRouter()
			router.Get("/events/{eventID}", HandleGetEvent(mockSvc))

			req := httptest.NewRequest(http.MethodGet, "/events/"+tt.eventID, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestHandleListEvents(t *testing.T) {
	mockSvc := new(MockEventService)
	mockSvc.On("ListEvents", mock.Anything).Return([]domain.Event{testEventDetail().Event}, nil)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()

	HandleListEvents(mockSvc)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), testEventID)
	mockSvc.AssertExpectations(t)
}
