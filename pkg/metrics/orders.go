package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics counts order creation and status changes.
type OrderMetrics struct {
	created       *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, labelled by source (cart or items).",
	}, []string{"source"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Order status changes, labelled by the new status.",
	}, []string{"status"})
	reg.MustRegister(created, statusChanges)
	return &OrderMetrics{
		created:       created,
		statusChanges: statusChanges,
	}
}

// IncCreated increments the created counter for the given source.
func (m *OrderMetrics) IncCreated(source string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncStatusChange increments the status change counter.
func (m *OrderMetrics) IncStatusChange(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}
