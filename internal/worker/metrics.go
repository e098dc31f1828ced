package worker

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry       *prometheus.Registry
	jobsTotal      *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
	activeJobs     prometheus.Gauge
	artifactsTotal *prometheus.CounterVec
	skipsTotal     *prometheus.CounterVec
	bytesStored    prometheus.Counter
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &metrics{
		registry: registry,
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "galleryforge_worker_jobs_total",
			Help: "Total derivative jobs by terminal outcome.",
		}, []string{"outcome"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "galleryforge_worker_job_duration_seconds",
			Help:    "Total processing duration for each derivative job.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "galleryforge_worker_active_jobs",
			Help: "Current number of derivative jobs being processed.",
		}),
		artifactsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "galleryforge_worker_artifacts_total",
			Help: "Total stored derivative artifacts by kind.",
		}, []string{"kind"}),
		skipsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "galleryforge_worker_skips_total",
			Help: "Total cleanly skipped jobs by reason.",
		}, []string{"reason"}),
		bytesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "galleryforge_worker_base_bytes_stored_total",
			Help: "Total bytes of stored base artifacts across successful jobs.",
		}),
	}

	registry.MustRegister(
		m.jobsTotal,
		m.jobDuration,
		m.activeJobs,
		m.artifactsTotal,
		m.skipsTotal,
		m.bytesStored,
	)
	return m
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
