package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_access/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample per family so counters are non-zero
	observability.ObserveHTTP("/hotels", "GET", 200, 12*time.Millisecond)
	observability.ObserveDB("find_all_hotels", "ok", 3*time.Millisecond)
	observability.ObserveAccess("list_hotels", "payment_required")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"hotels_http_requests_total",
		"hotels_db_queries_total",
		`hotels_access_decisions_total{operation="list_hotels",outcome="payment_required"}`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}
