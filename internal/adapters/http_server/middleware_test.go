package httpserver_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	server "hotel_access/internal/adapters/http_server"
	"hotel_access/internal/app"
)

func TestRateLimit_PerClient(t *testing.T) {
	st := newStore()
	srv := server.New(server.Options{RequestTimeout: time.Second, RateLimitRPS: 0.001, RateLimitBurst: 2})
	srv.MountHandlers(&server.Handlers{H: app.NewHotelService(st, st, st), Auth: fakeAuth{"u6": 6}})
	h := srv.Mux()

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = ip + ":5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
	limited := hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	// a different client has its own bucket
	assert.Equal(t, http.StatusOK, hit("10.0.0.2").Code)
}

func TestRateLimit_IgnoresForwardedForByDefault(t *testing.T) {
	st := newStore()
	srv := server.New(server.Options{RequestTimeout: time.Second, RateLimitRPS: 0.001, RateLimitBurst: 2})
	srv.MountHandlers(&server.Handlers{H: app.NewHotelService(st, st, st), Auth: fakeAuth{"u6": 6}})
	h := srv.Mux()

	limited := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 48, limited)
}

func TestRateLimit_TrustProxyUsesForwardedFor(t *testing.T) {
	st := newStore()
	srv := server.New(server.Options{RequestTimeout: time.Second, RateLimitRPS: 0.001, RateLimitBurst: 1, TrustProxy: true})
	srv.MountHandlers(&server.Handlers{H: app.NewHotelService(st, st, st), Auth: fakeAuth{"u6": 6}})
	h := srv.Mux()

	hit := func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, hit("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("203.0.113.1"))
	assert.Equal(t, http.StatusOK, hit("203.0.113.2"))
}

func TestAuth_PutsUserOnContext(t *testing.T) {
	var got int64
	var ok bool
	h := server.Auth(fakeAuth{"u6": 6})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = server.UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/hotels", nil)
	req.Header.Set("Authorization", "Bearer u6")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, ok)
	assert.Equal(t, int64(6), got)
}
