package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelRarity  = "rarity"
	LabelOutcome = "outcome"
	LabelPeriod  = "period"
	LabelQuest   = "quest"
)

// HTTPLatencyBuckets covers the expected latency range of engine calls.
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published",
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_handler_errors_total",
			Help: "Total number of event handler errors",
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	CalibrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calibration_attempts_total",
			Help: "Total number of calibration attempts",
		},
		[]string{LabelRarity, LabelOutcome},
	)

	QuestsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quests_completed_total",
			Help: "Total number of quests completed",
		},
		[]string{LabelQuest},
	)

	QuestResets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quest_resets_total",
			Help: "Total number of periodic quest resets",
		},
		[]string{LabelPeriod},
	)

	CheckIns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkins_total",
			Help: "Total number of successful daily check-ins",
		},
	)

	ItemsAcquired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "items_acquired_total",
			Help: "Total number of items acquired",
		},
	)

	PointsEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "points_earned_total",
			Help: "Total points granted to users",
		},
	)

	PointsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "points_spent_total",
			Help: "Total points consumed by calibration and purchases",
		},
	)
)
