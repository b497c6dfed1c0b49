package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AuthMetrics counts authentication flow outcomes.
type AuthMetrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
}

// NewAuthMetrics creates Prometheus-backed authentication metrics.
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewAuthMetrics() *AuthMetrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &AuthMetrics{
		registrations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helikon_auth_registrations_total",
				Help: "Total number of registration attempts by outcome",
			},
			[]string{"outcome"}, // "success", "duplicate", "error"
		),
		logins: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helikon_auth_logins_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"}, // "success", "invalid_credentials", "not_approved", "error"
		),
		refreshes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helikon_auth_token_refreshes_total",
				Help: "Total number of token refresh attempts by outcome",
			},
			[]string{"outcome"}, // "success", "invalid_token", "not_approved", "error"
		),
	}
}

// RecordRegistration counts a registration attempt.
func (m *AuthMetrics) RecordRegistration(outcome string) {
	if m != nil {
		m.registrations.WithLabelValues(outcome).Inc()
	}
}

// RecordLogin counts a login attempt.
func (m *AuthMetrics) RecordLogin(outcome string) {
	if m != nil {
		m.logins.WithLabelValues(outcome).Inc()
	}
}

// RecordRefresh counts a token refresh attempt.
func (m *AuthMetrics) RecordRefresh(outcome string) {
	if m != nil {
		m.refreshes.WithLabelValues(outcome).Inc()
	}
}
