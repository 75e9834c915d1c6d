package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts order lifecycle outcomes.
type OrderMetrics struct {
	created           prometheus.Counter
	cancelled         prometheus.Counter
	insufficientStock prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully placed.",
	})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Orders cancelled with stock returned.",
	})
	insufficientStock := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_insufficient_stock_total",
		Help: "Order attempts rejected for lack of inventory.",
	})
	reg.MustRegister(created, cancelled, insufficientStock)
	return &OrderMetrics{
		created:           created,
		cancelled:         cancelled,
		insufficientStock: insufficientStock,
	}
}

// IncCreated increments the created-orders counter.
func (o *OrderMetrics) IncCreated() {
	if o == nil || o.created == nil {
		return
	}
	o.created.Inc()
}

// IncCancelled increments the cancelled-orders counter.
func (o *OrderMetrics) IncCancelled() {
	if o == nil || o.cancelled == nil {
		return
	}
	o.cancelled.Inc()
}

// IncInsufficientStock increments the rejected-for-stock counter.
func (o *OrderMetrics) IncInsufficientStock() {
	if o == nil || o.insufficientStock == nil {
		return
	}
	o.insufficientStock.Inc()
}
