package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clientsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "casino_chat_clients",
		Help: "Connected chat websocket clients.",
	})
	messagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_chat_messages_total",
		Help: "Chat messages accepted from clients.",
	})
	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_chat_dropped_total",
		Help: "Chat deliveries dropped because a client was too slow.",
	})
	relayErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_chat_relay_errors_total",
		Help: "Failures publishing to or decoding from the chat relay.",
	})
)
