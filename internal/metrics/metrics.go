package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ToolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twittermcp_tool_calls_total",
		Help: "Total tool invocations",
	}, []string{"tool"})
	ToolErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twittermcp_tool_errors_total",
		Help: "Total failed tool invocations",
	}, []string{"tool"})
	UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twittermcp_upstream_requests_total",
		Help: "Total X API requests by outcome",
	}, []string{"endpoint", "outcome"})
	UpstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "twittermcp_upstream_duration_seconds",
		Help:    "X API request duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

func init() {
	prometheus.MustRegister(ToolCalls, ToolErrors, UpstreamRequests, UpstreamDuration)
}

// Handler serves /metrics and /health.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return mux
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
// An empty addr disables it. errf receives the listener error, if any.
func StartServer(addr string, errf func(error)) *http.Server {
	if addr == "" {
		return nil
	}
	srv := &http.Server{Addr: addr, Handler: Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && errf != nil {
			errf(err)
		}
	}()
	return srv
}

func IncToolCall(tool string)  { ToolCalls.WithLabelValues(tool).Inc() }
func IncToolError(tool string) { ToolErrors.WithLabelValues(tool).Inc() }

// ObserveUpstream records one X API request and its outcome label.
func ObserveUpstream(endpoint, outcome string, start time.Time) {
	UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
