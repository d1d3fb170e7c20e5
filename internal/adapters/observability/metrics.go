package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotels", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "db_queries_total", Help: "Store queries."},
		[]string{"query", "outcome"}, // outcome: ok|no_rows|error
	)
	DBLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotels", Name: "db_query_duration_seconds",
			Help:    "Store query duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	AccessDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotels", Name: "access_decisions_total", Help: "Hotel access gate outcomes."},
		[]string{"operation", "outcome"}, // outcome: allowed|not_found|payment_required|error
	)
)

// Serve runs a dedicated metrics listener until ctx is done. An empty addr
// disables it.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server failed")
		return err
	}
	return nil
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, DBQueries, DBLatency, CacheEvents, AccessDecisions)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveDB(query, outcome string, dur time.Duration) {
	DBQueries.WithLabelValues(query, outcome).Inc()
	DBLatency.WithLabelValues(query).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveAccess(operation, outcome string) {
	AccessDecisions.WithLabelValues(operation, outcome).Inc()
}
