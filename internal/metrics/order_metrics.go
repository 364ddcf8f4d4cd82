package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Метки результата обработки заказа.
const (
	ResultProcessed = "processed"
	ResultCancelled = "cancelled"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

// OrderMetrics содержит метрики конвейера обработки заказов.
type OrderMetrics struct {
	ordersStarted       prometheus.Counter
	ordersFinished      *prometheus.CounterVec
	notificationsFailed prometheus.Counter
	processDuration     prometheus.Histogram
	stepDuration        *prometheus.HistogramVec
	inFlight            prometheus.Gauge
}

// NewOrderMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer регистрирует метрики в переданном registerer.
// Повторная регистрация переиспользует уже существующие коллекторы.
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersStarted: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderflow_orders_started_total",
			Help: "Total number of orders taken into processing",
		})),
		ordersFinished: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderflow_orders_finished_total",
			Help: "Total number of orders that left the pipeline, grouped by result",
		}, []string{"result"})),
		notificationsFailed: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderflow_notifications_failed_total",
			Help: "Total number of order confirmations that could not be delivered",
		})),
		processDuration: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orderflow_process_duration_seconds",
			Help:    "Duration of ProcessOrder calls in seconds",
			Buckets: prometheus.DefBuckets,
		})),
		stepDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orderflow_step_duration_seconds",
			Help:    "Duration of individual pipeline steps in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"step"})),
		inFlight: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orderflow_orders_in_flight",
			Help: "Number of orders currently being processed",
		})),
	}
}

// register регистрирует коллектор; при AlreadyRegisteredError возвращает существующий.
func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if err := registerer.Register(collector); err != nil {
		alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(fmt.Sprintf("register collector: %v", err))
		}
		existing, ok := alreadyRegistered.ExistingCollector.(T)
		if !ok {
			panic(fmt.Sprintf("collector already registered with unexpected type %T", alreadyRegistered.ExistingCollector))
		}
		return existing
	}
	return collector
}

// RecordStarted фиксирует начало обработки заказа.
func (m *OrderMetrics) RecordStarted() {
	m.ordersStarted.Inc()
	m.inFlight.Inc()
}

// RecordFinished фиксирует результат и длительность обработки.
func (m *OrderMetrics) RecordFinished(result string, duration time.Duration) {
	m.inFlight.Dec()
	m.ordersFinished.WithLabelValues(result).Inc()
	m.processDuration.Observe(duration.Seconds())
}

// RecordRejected учитывает заказ, который не был взят в обработку.
func (m *OrderMetrics) RecordRejected() {
	m.ordersFinished.WithLabelValues(ResultRejected).Inc()
}

// RecordNotificationFailed увеличивает счётчик недоставленных подтверждений.
func (m *OrderMetrics) RecordNotificationFailed() {
	m.notificationsFailed.Inc()
}

// RecordStepDuration записывает время выполнения шага (validate, save, notify).
func (m *OrderMetrics) RecordStepDuration(step string, duration time.Duration) {
	m.stepDuration.WithLabelValues(step).Observe(duration.Seconds())
}
