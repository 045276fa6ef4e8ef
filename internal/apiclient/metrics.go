package apiclient

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess   = "success"
	outcomeRejected  = "rejected"
	outcomeTransport = "transport_error"
)

var (
	directoryRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_directory_requests_total",
			Help: "Directory calls by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	directoryRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_directory_request_duration_seconds",
			Help:    "Directory call latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"action"},
	)
)

func observe(action Action, start time.Time, env *Envelope, err error) {
	directoryRequestDuration.WithLabelValues(string(action)).Observe(time.Since(start).Seconds())
	directoryRequestsTotal.WithLabelValues(string(action), outcome(env, err)).Inc()
}

func outcome(env *Envelope, err error) string {
	var f *Failure
	switch {
	case errors.As(err, &f) && f.Rejected:
		return outcomeRejected
	case err != nil:
		return outcomeTransport
	case !env.Succeeded():
		return outcomeRejected
	}
	return outcomeSuccess
}
