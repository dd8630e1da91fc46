// Package metrics expone los contadores de la conciliación de stock en formato Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/assistencia-api/internal/application/inventory"
)

var _ inventory.Metrics = (*Recorder)(nil)

// Recorder implementa inventory.Metrics sobre un registro propio (no el global).
type Recorder struct {
	registry        *prometheus.Registry
	reconciliations *prometheus.CounterVec
	adjustments     *prometheus.CounterVec
	units           *prometheus.CounterVec
	rejections      prometheus.Counter
}

// NewRecorder crea el registro con los collectors de proceso y runtime de Go.
func NewRecorder(namespace string) *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_reconciliations_total",
			Help:      "Conciliaciones de stock por operación (save, delete) y resultado.",
		}, []string{"operation", "result"}),
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Ajustes aplicados al libro de stock por dirección.",
		}, []string{"direction"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_moved_total",
			Help:      "Unidades movidas por el libro de stock por dirección.",
		}, []string{"direction"}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_rejections_total",
			Help:      "Ajustes rechazados por stock insuficiente.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.reconciliations, r.adjustments, r.units, r.rejections,
	)
	return r
}

func (r *Recorder) ObserveReconciliation(operation, result string) {
	r.reconciliations.WithLabelValues(operation, result).Inc()
}

func (r *Recorder) ObserveAdjustment(delta int) {
	direction := "withdraw"
	if delta > 0 {
		direction = "return"
	} else {
		delta = -delta
	}
	r.adjustments.WithLabelValues(direction).Inc()
	r.units.WithLabelValues(direction).Add(float64(delta))
}

func (r *Recorder) ObserveRejection() {
	r.rejections.Inc()
}

// Registry devuelve el registro (tests, collectors adicionales).
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler handler HTTP de /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
