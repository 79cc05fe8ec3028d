package adapters

import (
	"net/http"
	"time"
	"veo-prompt-director/application/ports/outbound"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PrometheusMetrics interface {
	outbound.MetricsPort
	Handler() http.Handler
}

type prometheusMetrics struct {
	registry         *prometheus.Registry
	modelCallsTotal  *prometheus.CounterVec
	modelCallSeconds *prometheus.HistogramVec
	videoJobsTotal   *prometheus.CounterVec
	videoJobSeconds  prometheus.Histogram
	videoPollsTotal  prometheus.Counter
	historyWrites    *prometheus.CounterVec
}

// NewPrometheusMetrics registers on a private registry so tests can build
// as many instances as they like.
func NewPrometheusMetrics() PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(registry)

	return &prometheusMetrics{
		registry: registry,
		modelCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "director_model_calls_total",
			Help: "Total number of model calls by operation and status.",
		}, []string{"op", "status"}),
		modelCallSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "director_model_call_duration_seconds",
			Help:    "Duration of model calls by operation.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"op"}),
		videoJobsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "director_video_jobs_total",
			Help: "Total number of video renders by outcome.",
		}, []string{"outcome"}),
		videoJobSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "director_video_job_duration_seconds",
			Help:    "Duration of video renders from submit to final state.",
			Buckets: []float64{30, 60, 120, 180, 300, 600},
		}),
		videoPollsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "director_video_polls_total",
			Help: "Total number of video operation polls.",
		}),
		historyWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "director_history_writes_total",
			Help: "Total number of history writes by action.",
		}, []string{"action"}),
	}
}

func (p *prometheusMetrics) ObserveModelCall(op string, status string, elapsed time.Duration) {
	p.modelCallsTotal.WithLabelValues(op, status).Inc()
	p.modelCallSeconds.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (p *prometheusMetrics) ObserveVideoJob(outcome string, elapsed time.Duration) {
	p.videoJobsTotal.WithLabelValues(outcome).Inc()
	p.videoJobSeconds.Observe(elapsed.Seconds())
}

func (p *prometheusMetrics) IncVideoPoll() {
	p.videoPollsTotal.Inc()
}

func (p *prometheusMetrics) IncHistoryWrite(action string) {
	p.historyWrites.WithLabelValues(action).Inc()
}

func (p *prometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
