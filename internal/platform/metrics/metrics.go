// internal/platform/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "subhound"

// Outcomes de un probe DNS.
const (
	ProbeResolved = "resolved"
	ProbeMissing  = "missing"
	ProbeError    = "error"
)

// Recorder es lo que el dominio necesita saber de las métricas.
type Recorder interface {
	RunStarted()
	ObserveSource(method string, d time.Duration, results int)
	SourceFailed(method, reason string)
	ProbeStarted()
	ProbeFinished(outcome string)
}

// Prometheus implementa Recorder sobre un registry propio.
type Prometheus struct {
	registry *prometheus.Registry

	runs           prometheus.Counter
	sourceDuration *prometheus.HistogramVec
	sourceResults  *prometheus.GaugeVec
	sourceFailures *prometheus.CounterVec
	probes         *prometheus.CounterVec
	probesInflight prometheus.Gauge
}

// NewPrometheus crea y registra los collectors. Cada instancia usa su propio
// registry, por lo que varias pueden convivir en tests.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_runs_total",
			Help:      "Discovery runs started.",
		}),
		sourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_duration_seconds",
			Help:      "Time spent by each discovery method.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30, 60},
		}, []string{"method"}),
		sourceResults: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_results",
			Help:      "Subdomains returned by the last run of each method.",
		}, []string{"method"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Discovery method failures by reason.",
		}, []string{"method", "reason"}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dns_probes_total",
			Help:      "Wordlist DNS probes by outcome.",
		}, []string{"outcome"}),
		probesInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dns_probes_inflight",
			Help:      "Wordlist DNS probes currently in flight.",
		}),
	}

	p.registry.MustRegister(
		p.runs,
		p.sourceDuration,
		p.sourceResults,
		p.sourceFailures,
		p.probes,
		p.probesInflight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return p
}

func (p *Prometheus) RunStarted() {
	p.runs.Inc()
}

func (p *Prometheus) ObserveSource(method string, d time.Duration, results int) {
	p.sourceDuration.WithLabelValues(method).Observe(d.Seconds())
	p.sourceResults.WithLabelValues(method).Set(float64(results))
}

func (p *Prometheus) SourceFailed(method, reason string) {
	p.sourceFailures.WithLabelValues(method, reason).Inc()
}

func (p *Prometheus) ProbeStarted() {
	p.probesInflight.Inc()
}

func (p *Prometheus) ProbeFinished(outcome string) {
	p.probesInflight.Dec()
	p.probes.WithLabelValues(outcome).Inc()
}

// Registry expone el registry para tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler sirve el endpoint /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Nop descarta todas las observaciones.
type Nop struct{}

func (Nop) RunStarted()                              {}
func (Nop) ObserveSource(string, time.Duration, int) {}
func (Nop) SourceFailed(string, string)              {}
func (Nop) ProbeStarted()                            {}
func (Nop) ProbeFinished(string)                     {}
