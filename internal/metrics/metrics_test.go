package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/characters", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.CollectAndCount(GatewayLatencySeconds)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/characters?page=2", nil))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rr.Code)
	}
	if after := testutil.CollectAndCount(GatewayLatencySeconds); after != before+1 {
		t.Fatalf("expected one new series, got %d -> %d", before, after)
	}
}

func TestObserveUpstream(t *testing.T) {
	ObserveUpstream("get_person_test", 200, 10*time.Millisecond)
	ObserveUpstream("get_person_test", 200, 20*time.Millisecond)

	got := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("get_person_test", "200"))
	if got != 2 {
		t.Fatalf("expected 2 upstream requests, got %v", got)
	}
}
