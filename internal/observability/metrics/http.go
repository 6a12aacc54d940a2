package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	pipelineRequestsTotal *prometheus.CounterVec
	retrievalTotal        *prometheus.CounterVec
	fallbackTotal         *prometheus.CounterVec
	indexRebuildsTotal    *prometheus.CounterVec
	chunksPerRebuild      *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rag",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rag",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rag",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	pipelineRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rag",
			Subsystem: "query",
			Name:      "pipeline_requests_total",
			Help:      "Total answered queries by chosen pipeline.",
		},
		[]string{"service", "pipeline"},
	)
	retrievalTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rag",
			Subsystem: "query",
			Name:      "retrieval_total",
			Help:      "Total corpus retrievals by outcome.",
		},
		[]string{"service", "outcome"},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rag",
			Subsystem: "query",
			Name:      "fallback_total",
			Help:      "Total answers served by the deterministic fallback.",
		},
		[]string{"service", "pipeline"},
	)
	indexRebuildsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rag",
			Subsystem: "ingest",
			Name:      "index_rebuilds_total",
			Help:      "Total session corpus rebuilds from document uploads.",
		},
		[]string{"service"},
	)
	chunksPerRebuild := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rag",
			Subsystem: "ingest",
			Name:      "chunks_per_rebuild",
			Help:      "Distribution of chunk counts per corpus rebuild.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 200},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		pipelineRequestsTotal,
		retrievalTotal,
		fallbackTotal,
		indexRebuildsTotal,
		chunksPerRebuild,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		pipelineRequestsTotal: pipelineRequestsTotal,
		retrievalTotal:        retrievalTotal,
		fallbackTotal:         fallbackTotal,
		indexRebuildsTotal:    indexRebuildsTotal,
		chunksPerRebuild:      chunksPerRebuild,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/sessions/"):
		return "/v1/sessions/{session_id}"
	default:
		return path
	}
}

// QueryRecorder adapts the server metrics to the query usecase.
type QueryRecorder struct {
	service string
	metrics *HTTPServerMetrics
}

func (m *HTTPServerMetrics) QueryRecorder(service string) *QueryRecorder {
	return &QueryRecorder{service: service, metrics: m}
}

func (r *QueryRecorder) RecordPipeline(pipeline domain.Pipeline) {
	r.metrics.pipelineRequestsTotal.WithLabelValues(r.service, string(pipeline)).Inc()
}

func (r *QueryRecorder) RecordRetrieval(outcome domain.RetrievalOutcome) {
	r.metrics.retrievalTotal.WithLabelValues(r.service, retrievalOutcomeLabel(outcome)).Inc()
}

func (r *QueryRecorder) RecordFallback(pipeline domain.Pipeline) {
	r.metrics.fallbackTotal.WithLabelValues(r.service, string(pipeline)).Inc()
}

func retrievalOutcomeLabel(outcome domain.RetrievalOutcome) string {
	switch outcome {
	case domain.RetrievalHit:
		return "hit"
	case domain.RetrievalNoCorpus:
		return "no_corpus"
	case domain.RetrievalNoRelevant:
		return "no_relevant"
	case domain.RetrievalError:
		return "error"
	default:
		return "unknown"
	}
}

func (m *HTTPServerMetrics) RecordIndexRebuild(service string, chunkCount int) {
	m.indexRebuildsTotal.WithLabelValues(service).Inc()
	m.chunksPerRebuild.WithLabelValues(service).Observe(float64(chunkCount))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
