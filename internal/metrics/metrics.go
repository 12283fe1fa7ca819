package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace       = "correlation_vector"
	vectorSubsystem = "vector"
	httpSubsystem   = "http"

	vectorsCreatedTotalMetricName    = "created_total"
	invalidVectorsTotalMetricName    = "invalid_total"
	sealedVectorsTotalMetricName     = "sealed_total"
	propagatedVectorsTotalMetricName = "propagated_total"

	httpInFlightRequestsMetricName       = "in_flight_requests"
	httpRequestsTotalMetricName          = "requests_total"
	httpRequestDurationSecondsMetricName = "request_duration_seconds"
)

// Sources a vector can be created from.
const (
	SourceNew      = "new"
	SourceExtend   = "extend"
	SourceSpin     = "spin"
	SourceFallback = "fallback"
)

var (
	VectorsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: vectorSubsystem,
			Name:      vectorsCreatedTotalMetricName,
			Help:      "The number of correlation vectors created, by source and version.",
		},
		[]string{"source", "version"},
	)

	InvalidVectors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: vectorSubsystem,
			Name:      invalidVectorsTotalMetricName,
			Help:      "The number of correlation vectors rejected, by operation and error kind.",
		},
		[]string{"op", "kind"},
	)

	SealedVectors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: vectorSubsystem,
			Name:      sealedVectorsTotalMetricName,
			Help:      "The number of sealed correlation vectors observed, by version.",
		},
		[]string{"version"},
	)

	PropagatedVectors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: vectorSubsystem,
			Name:      propagatedVectorsTotalMetricName,
			Help:      "The number of correlation vectors sent on outbound requests, by version.",
		},
		[]string{"version"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: httpSubsystem,
			Name:      httpRequestsTotalMetricName,
			Help:      "A counter for outbound http requests carrying a correlation vector.",
		},
		[]string{"code", "method"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: httpSubsystem,
			Name:      httpRequestDurationSecondsMetricName,
			Help:      "A histogram of latencies for outbound http requests.",
			Buckets: []float64{
				0.005, /* 5ms */
				0.025, /* 25ms */
				0.1,   /* 100ms */
				0.5,   /* 500ms */
				1.0,   /* 1s */
				10.0,  /* 10s */
				30.0,  /* 30s */
			},
		},
		[]string{"code", "method"},
	)

	httpInFlightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: httpSubsystem,
			Name:      httpInFlightRequestsMetricName,
			Help:      "A gauge of outbound requests currently being performed.",
		},
	)
)

func NewRoundTripper(next http.RoundTripper) promhttp.RoundTripperFunc {
	rt := next

	rt = promhttp.InstrumentRoundTripperCounter(httpRequestsTotal, rt)
	rt = promhttp.InstrumentRoundTripperDuration(httpRequestDurationSeconds, rt)
	return promhttp.InstrumentRoundTripperInFlight(httpInFlightRequests, rt)
}
