package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registerAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visitordesk_register_attempts_total",
		Help: "Number of registration attempts grouped by status.",
	}, []string{"status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visitordesk_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	refreshAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visitordesk_refresh_attempts_total",
		Help: "Number of token refresh attempts grouped by status.",
	}, []string{"status"})

	userActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visitordesk_user_actions_total",
		Help: "Admin user-record operations grouped by action and status.",
	}, []string{"action", "status"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visitordesk_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncRegister increments the registration counter.
func IncRegister(status string) {
	registerAttempts.WithLabelValues(status).Inc()
}

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncRefresh increments the refresh counter.
func IncRefresh(status string) {
	refreshAttempts.WithLabelValues(status).Inc()
}

// IncUserAction increments the admin operation counter.
func IncUserAction(action, status string) {
	userActions.WithLabelValues(action, status).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
