package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Options struct {
	RequestTimeout time.Duration
	RateLimitRPS   float64 // <= 0 disables rate limiting
	RateLimitBurst int
	// TrustProxy lets X-Forwarded-For / X-Real-IP replace the peer address.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool
}

type Server struct{ mux *chi.Mux }

func New(o Options) *Server {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 15 * time.Second
	}
	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	if o.TrustProxy {
		m.Use(chimw.RealIP)
	}
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(o.RequestTimeout))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))
	m.Use(RateLimit(o.RateLimitRPS, o.RateLimitBurst))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
