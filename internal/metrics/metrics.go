package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the ledger.
type Metrics struct {
	BookingsCreated   prometheus.Counter
	BookingsCheckedIn prometheus.Counter
	BookingsRefunded  prometheus.Counter
	TransfersExecuted prometheus.Counter
	TransferredAmount prometheus.Counter
	ErrorsCount       *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		}),
		BookingsCheckedIn: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_checked_in_total",
			Help:      "The total number of bookings checked in",
		}),
		BookingsRefunded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_refunded_total",
			Help:      "The total number of bookings refunded",
		}),
		TransfersExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_executed_total",
			Help:      "The total number of fund transfers executed",
		}),
		TransferredAmount: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transferred_amount_total",
			Help:      "Total amount transferred, in the smallest currency unit",
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
