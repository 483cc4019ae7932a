package rest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workroom_client",
			Name:      "rest_requests_total",
			Help:      "Requests issued against the REST backend.",
		},
		[]string{"method"},
	)

	requestFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workroom_client",
			Name:      "rest_request_failures_total",
			Help:      "Requests that failed at transport level or returned a non-success status.",
		},
		[]string{"method"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "workroom_client",
			Name:      "rest_request_duration_seconds",
			Help:      "Wall time of individual backend requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)
