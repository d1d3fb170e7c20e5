package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"hotel_access/internal/adapters/observability"
	"hotel_access/internal/domain"
)

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, "timeout") }
}

// ---- status-recording ResponseWriter ----

type srw struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *srw) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *srw) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *srw) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// ---- Metrics middleware ----

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &srw{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		observability.ObserveHTTP(routeOf(r), r.Method, sw.Status(), time.Since(start))
	})
}

// ---- Structured logging middleware ----

func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &srw{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			l.Info().
				Str("route", routeOf(r)).
				Str("method", r.Method).
				Int("status", sw.Status()).
				Dur("duration", time.Since(start)).
				Str("remote", clientIP(r)).
				Str("ua", r.UserAgent()).
				Msg("http_request")
		})
	}
}

// clientIP is the host part of RemoteAddr. Forwarding headers only count
// when RealIP (see Options.TrustProxy) has already rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// ---- Per-client rate limiting ----

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

type limiterSet struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	max       int
	visitors  map[string]*visitor
	overflow  *rate.Limiter // shared by new clients while the map is full
	lastSweep time.Time
}

const (
	visitorIdle = 3 * time.Minute
	maxVisitors = 10000
)

func newLimiterSet(rps rate.Limit, burst, max int, now time.Time) *limiterSet {
	return &limiterSet{
		rps:       rps,
		burst:     burst,
		max:       max,
		visitors:  map[string]*visitor{},
		overflow:  rate.NewLimiter(rps, burst),
		lastSweep: now,
	}
}

func (s *limiterSet) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > time.Minute {
		for k, v := range s.visitors {
			if now.Sub(v.seen) > visitorIdle {
				delete(s.visitors, k)
			}
		}
		s.lastSweep = now
	}
	v, ok := s.visitors[key]
	if !ok {
		if len(s.visitors) >= s.max {
			return s.overflow
		}
		v = &visitor{lim: rate.NewLimiter(s.rps, s.burst)}
		s.visitors[key] = v
	}
	v.seen = now
	return v.lim
}

// RateLimit applies a token bucket per client IP. rps <= 0 disables it.
// Once maxVisitors clients are tracked, unseen clients share one bucket
// until idle entries are swept.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = 1
	}
	set := newLimiterSet(rate.Limit(rps), burst, maxVisitors, time.Now())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !set.get(clientIP(r), time.Now()).Allow() {
				w.Header().Set("Retry-After", "1")
				writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ---- Bearer token authentication ----

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

type ctxKey struct{}

// UserID returns the authenticated user id placed on the context by Auth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}

// Auth rejects requests without a valid, session-backed bearer token before
// any handler runs.
func Auth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			uid, err := a.Authenticate(r.Context(), strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired session")
					return
				}
				log.Error().Err(err).Str("route", routeOf(r)).Msg("session lookup failed")
				writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, uid)))
		})
	}
}
