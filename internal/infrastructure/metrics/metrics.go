package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "txledger"

// Metrics holds all Prometheus metrics. It implements usecase.Metrics and
// the HTTP middleware recorder.
type Metrics struct {
	// Worker metrics
	MessagesProcessed   *prometheus.CounterVec
	MessageDuration     *prometheus.HistogramVec
	Retries             prometheus.Counter
	DeadLetters         *prometheus.CounterVec
	LedgerDiscrepancies prometheus.Gauge

	// API metrics
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates all metrics and registers them on a fresh registry that also
// carries the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry creates all metrics and registers them on reg.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MessagesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_processed_total",
				Help:      "Total number of queue messages by outcome",
			},
			[]string{"outcome"},
		),
		MessageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "message_processing_duration_seconds",
				Help:      "Time from receipt to disposition of a queue message",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"outcome"},
		),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_retries_total",
			Help:      "Total number of messages requeued for retry",
		}),
		DeadLetters: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dead_letters_total",
				Help:      "Dead-letter publications by result",
			},
			[]string{"result"},
		),
		LedgerDiscrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_discrepancies",
			Help:      "Accounts whose balance disagreed with their history at the last check",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),

		gatherer: gatherer,
	}
}

// ObserveMessage records one disposed message.
func (m *Metrics) ObserveMessage(outcome string, d time.Duration) {
	m.MessagesProcessed.WithLabelValues(outcome).Inc()
	m.MessageDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) IncRetry() {
	m.Retries.Inc()
}

func (m *Metrics) IncDeadLetter(result string) {
	m.DeadLetters.WithLabelValues(result).Inc()
}

func (m *Metrics) SetDiscrepancies(n int) {
	m.LedgerDiscrepancies.Set(float64(n))
}

// RequestStarted marks an HTTP request as in flight.
func (m *Metrics) RequestStarted() {
	m.HTTPRequestsInFlight.Inc()
}

// ObserveRequest records a finished HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequestsInFlight.Dec()
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
