package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seatsaga"

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	admissionInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "in_flight",
			Help:      "Reservations currently holding an admission permit.",
		},
	)
	admissionRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "rejected_total",
			Help:      "Requests rejected because every permit was held.",
		},
	)
	sagaOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "saga",
			Name:      "outcomes_total",
			Help:      "Finished reservation sagas by terminal state and error code.",
		},
		[]string{"state", "code"},
	)
	sagaDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "saga",
			Name:      "duration_seconds",
			Help:      "Reservation saga duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"state"},
	)
	sagaStepAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "saga",
			Name:      "step_attempts_total",
			Help:      "Collaborator calls made by sagas, by step and success.",
		},
		[]string{"step", "success"},
	)
	kafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kafka",
			Name:      "messages_total",
			Help:      "Kafka messages published or consumed, by outcome.",
		},
		[]string{"direction", "topic", "success"},
	)
	kafkaDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kafka",
			Name:      "message_duration_seconds",
			Help:      "Time spent publishing or handling a Kafka message.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction", "topic"},
	)
)

const (
	DirectionPublish = "publish"
	DirectionConsume = "consume"
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			admissionInFlight,
			admissionRejected,
			sagaOutcomes,
			sagaDuration,
			sagaStepAttempts,
			kafkaMessages,
			kafkaDuration,
		)
	})
}

// Handler serves the default registry for scraping.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

func SetAdmissionInFlight(n int) {
	RegisterMetrics()
	admissionInFlight.Set(float64(n))
}

func RecordAdmissionRejected() {
	RegisterMetrics()
	admissionRejected.Inc()
}

func RecordSagaOutcome(state, code string, duration time.Duration) {
	RegisterMetrics()
	sagaOutcomes.WithLabelValues(state, code).Inc()
	sagaDuration.WithLabelValues(state).Observe(duration.Seconds())
}

func RecordStepAttempt(step string, success bool) {
	RegisterMetrics()
	sagaStepAttempts.WithLabelValues(step, strconv.FormatBool(success)).Inc()
}

func RecordKafkaMessage(direction, topic string, success bool, duration time.Duration) {
	RegisterMetrics()
	kafkaMessages.WithLabelValues(direction, topic, strconv.FormatBool(success)).Inc()
	kafkaDuration.WithLabelValues(direction, topic).Observe(duration.Seconds())
}
