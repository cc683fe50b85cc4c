package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики потока оформления заказов.
type CheckoutMetrics struct {
	// Счётчики оформления
	checkoutStarted   prometheus.Counter
	checkoutCompleted prometheus.Counter
	checkoutFailed    prometheus.Counter

	// Гистограмма времени оформления
	checkoutDuration prometheus.Histogram

	// Счётчики best-effort рассылок
	notificationPublished prometheus.Counter
	notificationFailed    prometheus.Counter
	fulfillmentPublished  prometheus.Counter
	fulfillmentFailed     prometheus.Counter
}

// NewCheckoutMetrics создаёт метрики в default-регистраторе Prometheus.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		checkoutStarted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_started_total",
			Help: "Total number of checkout attempts started",
		}),
		checkoutCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_completed_total",
			Help: "Total number of orders finalized successfully",
		}),
		checkoutFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_failed_total",
			Help: "Total number of checkout attempts failed before the order was persisted",
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Duration of checkout pipeline in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		notificationPublished: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_notification_published_total",
			Help: "Total number of order notifications posted successfully",
		}),
		notificationFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_notification_failed_total",
			Help: "Total number of order notification attempts that failed",
		}),
		fulfillmentPublished: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_fulfillment_published_total",
			Help: "Total number of orders sent to the fulfillment queue",
		}),
		fulfillmentFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_fulfillment_failed_total",
			Help: "Total number of fulfillment queue sends that failed",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordCheckoutStarted увеличивает счётчик начатых оформлений.
func (m *CheckoutMetrics) RecordCheckoutStarted() {
	m.checkoutStarted.Inc()
}

// RecordCheckoutCompleted увеличивает счётчик успешно оформленных заказов.
func (m *CheckoutMetrics) RecordCheckoutCompleted() {
	m.checkoutCompleted.Inc()
}

// RecordCheckoutFailed увеличивает счётчик оформлений, отклонённых до записи заказа.
func (m *CheckoutMetrics) RecordCheckoutFailed() {
	m.checkoutFailed.Inc()
}

// RecordCheckoutDuration записывает время оформления.
func (m *CheckoutMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordNotificationPublished увеличивает счётчик доставленных уведомлений.
func (m *CheckoutMetrics) RecordNotificationPublished() {
	m.notificationPublished.Inc()
}

// RecordNotificationFailed увеличивает счётчик неудачных уведомлений.
func (m *CheckoutMetrics) RecordNotificationFailed() {
	m.notificationFailed.Inc()
}

// RecordFulfillmentPublished увеличивает счётчик отправок в очередь склада.
func (m *CheckoutMetrics) RecordFulfillmentPublished() {
	m.fulfillmentPublished.Inc()
}

// RecordFulfillmentFailed увеличивает счётчик неудачных отправок в очередь склада.
func (m *CheckoutMetrics) RecordFulfillmentFailed() {
	m.fulfillmentFailed.Inc()
}
