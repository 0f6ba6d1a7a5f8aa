package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_events_published_total",
		Help: "Settlement events delivered to the sink.",
	}, []string{"type"})
	metricDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_events_dropped_total",
		Help: "Settlement events dropped because the queue was full or retries ran out.",
	})
	metricFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_events_failed_total",
		Help: "Sink send attempts that returned an error.",
	})
	metricRetryTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_events_retry_total",
		Help: "Settlement events scheduled for another attempt.",
	})
	metricQueueLen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "casino_events_queue_len",
		Help: "Settlement events waiting for the worker.",
	})
)
