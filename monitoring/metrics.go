package monitoring

import (
	"strings"

	apperrors "rewards/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AdCreditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_ad_credits_total",
			Help: "Ad credit attempts by outcome",
		},
		[]string{"result"},
	)

	WithdrawalRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_withdrawal_requests_total",
			Help: "Withdrawal requests by outcome",
		},
		[]string{"result"},
	)

	ReferralBonusesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_referral_bonuses_total",
			Help: "Referral bonuses paid",
		},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)
)

// Outcome turns the result of an operation into a metric label.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return strings.ToLower(string(appErr.Code))
	}
	return "error"
}
