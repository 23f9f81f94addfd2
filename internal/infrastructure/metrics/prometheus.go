package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

const namespace = "reorder"

// Prometheus implementa forecast.Recorder y alerting.Recorder.
type Prometheus struct {
	gatherer prometheus.Gatherer

	ForecastsTotal   *prometheus.CounterVec
	ForecastDuration prometheus.Histogram
	BatchProducts    *prometheus.CounterVec
	BatchRuns        prometheus.Counter
	AlertsTotal      *prometheus.CounterVec
}

// New registra los colectores en reg. Con reg nil se usa un registro propio.
func New(reg *prometheus.Registry) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	}
	f := promauto.With(reg)
	return &Prometheus{
		gatherer: reg,
		ForecastsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_total",
			Help:      "Pronósticos calculados, por resultado",
		}, []string{"result"}),
		ForecastDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_duration_seconds",
			Help:      "Latencia del cálculo de un pronóstico",
			Buckets:   prometheus.DefBuckets,
		}),
		BatchProducts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_products_total",
			Help:      "Productos procesados en lotes, por resultado",
		}, []string{"result"}),
		BatchRuns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_runs_total",
			Help:      "Ejecuciones del cálculo por lote",
		}),
		AlertsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Propuestas de alerta procesadas, por tipo y resultado",
		}, []string{"type", "result"}),
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveForecast registra duración y resultado de un pronóstico.
func (p *Prometheus) ObserveForecast(d time.Duration, err error) {
	p.ForecastsTotal.WithLabelValues(resultLabel(err)).Inc()
	p.ForecastDuration.Observe(d.Seconds())
}

// ObserveBatch registra el resumen de un lote.
func (p *Prometheus) ObserveBatch(succeeded, failed int) {
	p.BatchRuns.Inc()
	p.BatchProducts.WithLabelValues("ok").Add(float64(succeeded))
	p.BatchProducts.WithLabelValues("error").Add(float64(failed))
}

func (p *Prometheus) AlertEmitted(t entity.AlertType) {
	p.AlertsTotal.WithLabelValues(string(t), "emitted").Inc()
}

func (p *Prometheus) AlertSuppressed(t entity.AlertType) {
	p.AlertsTotal.WithLabelValues(string(t), "suppressed").Inc()
}

func (p *Prometheus) AlertFailed(t entity.AlertType) {
	p.AlertsTotal.WithLabelValues(string(t), "failed").Inc()
}

// Handler expone el registro en formato de texto de Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
