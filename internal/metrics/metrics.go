// Package metrics exposes interview and scoring-service counters.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	InterviewOutcomes  *prometheus.CounterVec
	InterviewQuestions prometheus.Histogram
	InterviewsActive   prometheus.Gauge
	RankerDuration     prometheus.Histogram
	RankerFailures     prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		InterviewOutcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triagez_interview_outcomes_total",
				Help: "Finished interviews by terminal outcome",
			},
			[]string{"outcome"},
		),
		InterviewQuestions: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "triagez_interview_questions",
			Help:    "Follow-up questions asked per finished interview",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 8},
		}),
		InterviewsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "triagez_interviews_active",
			Help: "Interviews started but not yet finished",
		}),
		RankerDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "triagez_ranker_request_duration_seconds",
			Help:    "Duration of scoring service calls",
			Buckets: prometheus.DefBuckets,
		}),
		RankerFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "triagez_ranker_failures_total",
			Help: "Scoring service calls that failed",
		}),
	}
}

// ObserveRankerCall records one scoring call.
func (m *Metrics) ObserveRankerCall(d time.Duration, err error) {
	m.RankerDuration.Observe(d.Seconds())
	if err != nil {
		m.RankerFailures.Inc()
	}
}

// InterviewStarted marks a new interview as active.
func (m *Metrics) InterviewStarted() {
	m.InterviewsActive.Inc()
}

// InterviewFinished records a terminal outcome.
func (m *Metrics) InterviewFinished(outcome string, questions int) {
	m.InterviewsActive.Dec()
	m.InterviewOutcomes.WithLabelValues(outcome).Inc()
	m.InterviewQuestions.Observe(float64(questions))
}

// InterviewAbandoned marks an interview as no longer active.
func (m *Metrics) InterviewAbandoned() {
	m.InterviewsActive.Dec()
	m.InterviewOutcomes.WithLabelValues("abandoned").Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
