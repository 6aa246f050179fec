// Package metrics exposes the Prometheus counters of the loan workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loanflow"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	applicationsSubmitted prometheus.Counter
	reviews               *prometheus.CounterVec
	reviewConflicts       prometheus.Counter
	scoringFailures       prometheus.Counter
	eligibilityScore      prometheus.Histogram
	applicationsByStatus  *prometheus.GaugeVec
}

// New creates collectors on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		applicationsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_submitted_total",
			Help:      "Loan applications submitted.",
		}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Officer reviews by resulting status.",
		}, []string{"status"}),
		reviewConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_conflicts_total",
			Help:      "Reviews refused because the application was already decided.",
		}),
		scoringFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_failures_total",
			Help:      "Eligibility scoring attempts that failed during review.",
		}),
		eligibilityScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "eligibility_score",
			Help:      "Distribution of computed eligibility scores.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		applicationsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "applications",
			Help:      "Applications per status at the last summary run.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.applicationsSubmitted,
		m.reviews,
		m.reviewConflicts,
		m.scoringFailures,
		m.eligibilityScore,
		m.applicationsByStatus,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ApplicationSubmitted() {
	if m == nil {
		return
	}
	m.applicationsSubmitted.Inc()
}

func (m *Metrics) Reviewed(status string) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(status).Inc()
}

func (m *Metrics) ReviewConflict() {
	if m == nil {
		return
	}
	m.reviewConflicts.Inc()
}

func (m *Metrics) ScoringFailed() {
	if m == nil {
		return
	}
	m.scoringFailures.Inc()
}

func (m *Metrics) ObserveScore(score float64) {
	if m == nil {
		return
	}
	m.eligibilityScore.Observe(score)
}

func (m *Metrics) SetApplications(status string, n int64) {
	if m == nil {
		return
	}
	m.applicationsByStatus.WithLabelValues(status).Set(float64(n))
}
