// Package metrics holds Prometheus instruments that are used across the
// application.  All collectors are registered with the global registry, so
// serving promhttp.Handler() in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FormSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Form submit attempts by form and outcome.",
		}, []string{"form", "outcome"})

	FormActionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "form_action_duration_seconds",
			Help:    "Time spent in the post-validation action of a form.",
			Buckets: prometheus.DefBuckets,
		}, []string{"form"})

	UsersRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Cumulative number of users created through the API.",
		})

	SessionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Session creation attempts by result.",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		FormSubmissions,
		FormActionDuration,
		UsersRegistered,
		SessionsCreated,
	)
}
