package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry
	service  string

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec

	tweetsAnalyzedTotal *prometheus.CounterVec
	urgencyDistribution *prometheus.HistogramVec
	overridesTotal      *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fa",
			Subsystem: "worker",
			Name:      "tweet_process_total",
			Help:      "Total processed tweets by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fa",
			Subsystem: "worker",
			Name:      "tweet_process_duration_seconds",
			Help:      "Tweet processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fa",
			Subsystem: "worker",
			Name:      "tweet_process_in_flight",
			Help:      "Number of in-flight tweet processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fa",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between tweet creation and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	tweetsAnalyzedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fa",
			Subsystem: "analysis",
			Name:      "tweets_analyzed_total",
			Help:      "Total analyzed tweets by category source.",
		},
		[]string{"service", "source"},
	)
	urgencyDistribution := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fa",
			Subsystem: "analysis",
			Name:      "urgency_score",
			Help:      "Distribution of assigned urgency scores.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		[]string{"service"},
	)
	overridesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fa",
			Subsystem: "analysis",
			Name:      "overrides_total",
			Help:      "Total human category overrides applied.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		processTotal,
		processDuration,
		processInFlight,
		queueLag,
		tweetsAnalyzedTotal,
		urgencyDistribution,
		overridesTotal,
	)

	return &WorkerMetrics{
		registry:            registry,
		service:             service,
		processTotal:        processTotal,
		processDuration:     processDuration,
		processInFlight:     processInFlight,
		queueLag:            queueLag,
		tweetsAnalyzedTotal: tweetsAnalyzedTotal,
		urgencyDistribution: urgencyDistribution,
		overridesTotal:      overridesTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartTweet() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishTweet(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObserveAnalysis(source string, urgency int) {
	if source == "" {
		source = "unknown"
	}
	m.tweetsAnalyzedTotal.WithLabelValues(m.service, source).Inc()
	m.urgencyDistribution.WithLabelValues(m.service).Observe(float64(urgency))
}

func (m *WorkerMetrics) ObserveOverride() {
	m.overridesTotal.WithLabelValues(m.service).Inc()
}
