// Package metrics exposes carousel navigation counters to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/trip"
)

// Recorder counts what happens to navigation requests. It is safe for
// concurrent use; hosts call it from their render goroutine.
type Recorder struct {
	registry    *prometheus.Registry
	moves       *prometheus.CounterVec
	interrupted prometheus.Counter
	rejected    *prometheus.CounterVec
	completed   prometheus.Counter
	index       prometheus.Gauge
}

// NewRecorder registers the carousel collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carousel_moves_total",
			Help: "Accepted navigation requests by direction.",
		}, []string{"direction"}),
		interrupted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carousel_transitions_interrupted_total",
			Help: "Transitions cancelled by a newer request.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carousel_requests_rejected_total",
			Help: "Navigation requests rejected, by trip type.",
		}, []string{"type"}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carousel_transitions_completed_total",
			Help: "Transitions that reached their target.",
		}),
		index: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "carousel_current_index",
			Help: "Index of the slot the carousel is on or heading to.",
		}),
	}
	r.registry.MustRegister(r.moves, r.interrupted, r.rejected, r.completed, r.index)
	return r
}

// ObserveMove records an accepted request.
func (r *Recorder) ObserveMove(req carousel.TransitionRequest) {
	r.moves.WithLabelValues(strconv.Itoa(req.Direction)).Inc()
	if req.Interrupted {
		r.interrupted.Inc()
	}
	r.index.Set(float64(req.To))
}

// ObserveRejected records a rejected request.
func (r *Recorder) ObserveRejected(err error) {
	kind := "unknown"
	var t *trip.Trip
	if errors.As(err, &t) {
		kind = t.Type
	}
	r.rejected.WithLabelValues(kind).Inc()
}

// ObserveCompleted records a transition reaching its target.
func (r *Recorder) ObserveCompleted() {
	r.completed.Inc()
}

// Registry exposes the underlying registry for tests and custom exporters.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
