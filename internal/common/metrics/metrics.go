// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders persisted",
		},
	)

	OrderStatusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_updates_total",
			Help: "Total number of order status updates by new status",
		},
		[]string{"status"},
	)

	OrderStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_store_errors_total",
			Help: "Total number of failed order store operations",
		},
		[]string{"operation", "error_code"},
	)

	// OrderListDegraded counts list calls that returned an empty result because storage was unreadable.
	OrderListDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_list_degraded_total",
			Help: "Total number of order listings served empty after a storage read failure",
		},
	)

	OrderCorruptRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_corrupt_records_total",
			Help: "Total number of stored order records skipped because they could not be decoded",
		},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of provider recommendations by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
