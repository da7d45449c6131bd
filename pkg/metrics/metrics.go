package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records auth operations by action (signup|login|refresh|...) and result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investor_onboarding_auth_attempts_total",
			Help: "Total number of authentication operations",
		},
		[]string{"action", "result"},
	)

	// OnboardingStepsSaved counts successful step saves by step name.
	OnboardingStepsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investor_onboarding_steps_saved_total",
			Help: "Total number of onboarding steps saved",
		},
		[]string{"step"},
	)

	// OnboardingSubmissions counts completed submissions.
	OnboardingSubmissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "investor_onboarding_submissions_total",
			Help: "Total number of onboarding submissions",
		},
	)

	// TokensCleared counts expired token material nulled by the housekeeping job.
	TokensCleared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "investor_onboarding_expired_tokens_cleared_total",
			Help: "Total number of users whose expired token material was cleared",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "investor_onboarding_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
