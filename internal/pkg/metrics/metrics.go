package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clarity"

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	simulationOutcomes *prometheus.CounterVec
	riskFindings       *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		simulationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Simulations by raw-change source and outcome.",
		}, []string{"path", "outcome"}),
		riskFindings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_findings_total",
			Help:      "Risk findings by category and severity.",
		}, []string{"category", "severity"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of outbound provider calls.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"upstream", "outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.httpRequests, m.httpDuration, m.simulationOutcomes, m.riskFindings, m.upstreamDuration)
	}
	return m
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveSimulation records a finished simulation. path is "synthetic" or "provider".
func (m *Metrics) ObserveSimulation(path string, success bool) {
	if m == nil {
		return
	}
	m.simulationOutcomes.WithLabelValues(path, outcome(success)).Inc()
}

// ObserveRiskFinding counts one finding.
func (m *Metrics) ObserveRiskFinding(category, severity string) {
	if m == nil {
		return
	}
	m.riskFindings.WithLabelValues(category, severity).Inc()
}

// ObserveUpstream records the latency of an outbound call started at start.
func (m *Metrics) ObserveUpstream(upstream string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(upstream, outcome(err == nil)).Observe(time.Since(start).Seconds())
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
