package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExportsTotal counts export requests by terminal outcome.
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_pdf_exports_total",
			Help: "Total number of order PDF export requests by outcome",
		},
		[]string{"outcome"},
	)

	// RenderDuration tracks PDF rendering time.
	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_pdf_render_duration_seconds",
			Help:    "Time spent rendering an order PDF",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RenderedBytes tracks produced document sizes.
	RenderedBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_pdf_rendered_bytes",
			Help:    "Size of rendered order PDFs in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	// AuditPublishFailures counts audit events that fell back to the
	// local log because the broker publish failed.
	AuditPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_pdf_audit_publish_failures_total",
			Help: "Audit events that could not be published to the broker",
		},
	)
)
