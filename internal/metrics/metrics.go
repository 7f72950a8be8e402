package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/osse101/LevelUp_Go/internal/domain"
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

// Scoring Metrics
var (
	XPCalculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameXPCalculations,
			Help: HelpTextXPCalculations,
		},
		[]string{LabelSource, LabelDifficulty},
	)

	XPAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameXPAwarded,
			Help: HelpTextXPAwarded,
		},
		[]string{LabelSource},
	)

	XPMultiplier = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameXPMultiplier,
			Help:    HelpTextXPMultiplier,
			Buckets: MultiplierBuckets,
		},
		[]string{LabelSource},
	)

	XPRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameXPRejected,
			Help: HelpTextXPRejected,
		},
		[]string{LabelSource, LabelReason},
	)

	NoveltyBonusApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameNoveltyBonusApplied,
			Help: HelpTextNoveltyBonusApplied,
		},
	)
)

// Ruleset and Reward Metrics
var (
	RulesetChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRulesetChanges,
			Help: HelpTextRulesetChanges,
		},
		[]string{LabelAction},
	)

	RewardEligibility = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRewardEligibility,
			Help: HelpTextRewardEligibility,
		},
		[]string{LabelOutcome},
	)

	ActivityPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameActivityPruned,
			Help: HelpTextActivityPruned,
		},
	)
)

// RecordCalculation counts a successful calculation
func RecordCalculation(source string, difficulty domain.Difficulty, result *domain.XPCalculationResult) {
	XPCalculations.WithLabelValues(source, string(difficulty)).Inc()
	XPAwarded.WithLabelValues(source).Add(float64(result.Total))
	XPMultiplier.WithLabelValues(source).Observe(result.Multiplier)
	if result.Breakdown.Novelty != nil {
		NoveltyBonusApplied.Inc()
	}
}

// RecordRejection counts a calculation refused by validation
func RecordRejection(source string, err error) {
	XPRejected.WithLabelValues(source, RejectionReason(err)).Inc()
}

// RejectionReason maps an error to a low-cardinality label value
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return ReasonInvalidInput
	case errors.Is(err, domain.ErrInvalidRuleset):
		return ReasonInvalidRuleset
	default:
		return ReasonOther
	}
}
