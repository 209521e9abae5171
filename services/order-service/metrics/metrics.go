package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_messages_processed_total",
		Help: "Checkout messages fully processed and acknowledged.",
	})

	MessagesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_messages_failed_total",
		Help: "Checkout message processing failures by pipeline stage.",
	}, []string{"stage"})

	MessagesDeadLettered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_messages_dead_lettered_total",
		Help: "Checkout messages forwarded to the dead-letter topic.",
	})

	ProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_message_processing_seconds",
		Help:    "Wall time spent handling one checkout message, retries included.",
		Buckets: prometheus.DefBuckets,
	})
)
