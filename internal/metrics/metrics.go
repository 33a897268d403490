package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	ActionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameActionsRecorded,
			Help: HelpTextActionsRecorded,
		},
		[]string{LabelActionType},
	)

	ConditionEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConditionEvaluations,
			Help: HelpTextConditionEvaluations,
		},
		[]string{LabelMode, LabelOutcome},
	)

	EventsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEventsRegistered,
			Help: HelpTextEventsRegistered,
		},
	)

	RewardsRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRewardsRegistered,
			Help: HelpTextRewardsRegistered,
		},
		[]string{LabelRewardType},
	)

	GrantsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGrantsCompleted,
			Help: HelpTextGrantsCompleted,
		},
		[]string{LabelRewardType},
	)

	GrantsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGrantsRejected,
			Help: HelpTextGrantsRejected,
		},
		[]string{LabelReason},
	)

	PointsGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsGranted,
			Help: HelpTextPointsGranted,
		},
	)
)
