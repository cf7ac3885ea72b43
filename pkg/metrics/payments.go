package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records gateway notification outcomes.
type PaymentMetrics struct {
	notifications *prometheus.CounterVec
	rejections    *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_notifications_total",
		Help: "Gateway notifications processed, labelled by mapped payment status.",
	}, []string{"status"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_notification_rejections_total",
		Help: "Gateway notifications rejected before any store mutation.",
	}, []string{"reason"})
	reg.MustRegister(notifications, rejections)
	return &PaymentMetrics{
		notifications: notifications,
		rejections:    rejections,
	}
}

// IncProcessed increments the processed counter for the mapped status.
func (p *PaymentMetrics) IncProcessed(status string) {
	if p == nil || p.notifications == nil {
		return
	}
	p.notifications.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncRejected increments the rejection counter for the named reason.
func (p *PaymentMetrics) IncRejected(reason string) {
	if p == nil || p.rejections == nil {
		return
	}
	p.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
