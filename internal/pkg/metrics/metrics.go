package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"issuehub/internal/domain"
)

var (
	deliveryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "issuehub",
		Subsystem: "notifications",
		Name:      "delivery_attempts_total",
		Help:      "Channel delivery attempts by outcome.",
	}, []string{"channel", "outcome"})

	dispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "issuehub",
		Subsystem: "notifications",
		Name:      "dispatches_total",
		Help:      "Fan-out dispatches by event type.",
	}, []string{"type"})

	webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "issuehub",
		Subsystem: "webhook",
		Name:      "events_total",
		Help:      "Inbound version-control webhook requests by result.",
	}, []string{"result"})
)

func RecordAttempt(attempt domain.DeliveryAttempt) {
	outcome := "success"
	if !attempt.Succeeded {
		outcome = "failure"
	}
	deliveryAttempts.WithLabelValues(string(attempt.Channel), outcome).Inc()
}

func RecordDispatch(eventType domain.EventType) {
	dispatches.WithLabelValues(string(eventType)).Inc()
}

func RecordWebhook(result string) {
	webhookEvents.WithLabelValues(result).Inc()
}
