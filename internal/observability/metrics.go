package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	recordsDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "itch",
			Subsystem: "records",
			Name:      "decoded_total",
			Help:      "Records decoded, by message kind.",
		},
		[]string{"kind"},
	)
	recordsPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "itch",
			Subsystem: "records",
			Name:      "published_total",
			Help:      "Records acknowledged by Kafka.",
		},
	)
	recordsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "itch",
			Subsystem: "records",
			Name:      "skipped_total",
			Help:      "Records skipped by checkpoint resume or filter.",
		},
	)
	publishErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "itch",
			Subsystem: "publish",
			Name:      "errors_total",
			Help:      "Records Kafka failed to acknowledge.",
		},
	)
	framingErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "itch",
			Subsystem: "framing",
			Name:      "errors_total",
			Help:      "Framing violations that stopped a decode, by kind.",
		},
		[]string{"kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(recordsDecoded, recordsPublished, recordsSkipped, publishErrors, framingErrors)
	})
}

func RecordDecoded(kind string) {
	RegisterMetrics()
	recordsDecoded.WithLabelValues(kind).Inc()
}

func RecordPublished() {
	RegisterMetrics()
	recordsPublished.Inc()
}

func RecordSkipped() {
	RegisterMetrics()
	recordsSkipped.Inc()
}

func RecordPublishError() {
	RegisterMetrics()
	publishErrors.Inc()
}

func RecordFramingError(kind string) {
	RegisterMetrics()
	framingErrors.WithLabelValues(kind).Inc()
}
