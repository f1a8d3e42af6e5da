package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts renders and uploads.
//
// * relief_renders_total{type,status} (counter)
// * relief_render_duration_seconds{type} (histogram)
// * relief_uploads_total{status} (counter)
// * relief_upload_bytes_total (counter)
type Metrics struct {
	registry       *prometheus.Registry
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	uploads        *prometheus.CounterVec
	uploadBytes    prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relief",
			Name:      "renders_total",
			Help:      "Render jobs by type and outcome.",
		}, []string{"type", "status"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "relief",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering one image.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}, []string{"type"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relief",
			Name:      "uploads_total",
			Help:      "S3 uploads by outcome.",
		}, []string{"status"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relief",
			Name:      "upload_bytes_total",
			Help:      "Bytes uploaded to S3.",
		}),
	}
	m.registry.MustRegister(m.renders, m.renderDuration, m.uploads, m.uploadBytes)
	return m
}

func (m *Metrics) ObserveRender(renderType string, start time.Time, err error) {
	m.renderDuration.WithLabelValues(renderType).Observe(time.Since(start).Seconds())
	m.renders.WithLabelValues(renderType, status(err)).Inc()
}

func (m *Metrics) ObserveUpload(size int, err error) {
	m.uploads.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.uploadBytes.Add(float64(size))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
