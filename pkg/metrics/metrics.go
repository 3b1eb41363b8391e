// Package metrics exposes bot counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "powersweeper"

// Action results.
const (
	ResultApplied = "applied"
	ResultRefused = "refused"
	ResultError   = "error"
)

// Recorder counts bot activity. A nil Recorder records nothing.
type Recorder struct {
	cycles         prometheus.Counter
	actions        *prometheus.CounterVec
	decisions      *prometheus.CounterVec
	navigations    prometheus.Counter
	updateDuration prometheus.Histogram
}

// NewRecorder registers the bot metrics on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		cycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "cycles_total",
			Help:      "Observe and decide cycles run",
		}),
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "actions_total",
			Help:      "Clicks attempted by kind and result",
		}, []string{"kind", "result"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "decisions_total",
			Help:      "Brain decisions by outcome",
		}, []string{"outcome"}),
		navigations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "navigations_total",
			Help:      "Moves to another chunk",
		}),
		updateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "update_duration_seconds",
			Help:      "Time to observe one chunk",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// Cycle counts one loop iteration.
func (r *Recorder) Cycle() {
	if r == nil {
		return
	}
	r.cycles.Inc()
}

// Action counts one click attempt.
func (r *Recorder) Action(kind, result string) {
	if r == nil {
		return
	}
	r.actions.WithLabelValues(kind, result).Inc()
}

// Decision counts one brain decision.
func (r *Recorder) Decision(outcome string) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(outcome).Inc()
}

// Navigation counts one chunk move.
func (r *Recorder) Navigation() {
	if r == nil {
		return
	}
	r.navigations.Inc()
}

// ObserveUpdate records how long an observation took.
func (r *Recorder) ObserveUpdate(d time.Duration) {
	if r == nil {
		return
	}
	r.updateDuration.Observe(d.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serve(ctx, ln, g)
}

func serve(ctx context.Context, ln net.Listener, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
