package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"swapi-gateway/pkg/logging/logging"
)

func TestLoggingContextAttachesRequestFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	h := chimw.RequestID(LoggingContext(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.L(r.Context()).Info("inside")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/characters", nil)
	req.Header.Set("User-Agent", "test-agent")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("inside").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/api/characters" || fields["method"] != http.MethodGet {
		t.Fatalf("missing request fields: %v", fields)
	}
	if fields["request_id"] == nil || fields["request_id"] == "" {
		t.Fatalf("missing request_id: %v", fields)
	}
	if fields["user_agent"] != "test-agent" {
		t.Fatalf("missing user_agent: %v", fields)
	}
}

func TestRecovererReturns500(t *testing.T) {
	h := Recoverer()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if rr.Body.String() != `{"error":"internal_server_error"}` {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestTimeoutSetsDeadline(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	h := Timeout(50 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, hasDeadline = r.Context().Deadline()
		<-r.Context().Done()
		if r.Context().Err() != context.DeadlineExceeded {
			t.Errorf("expected deadline exceeded, got %v", r.Context().Err())
		}
		w.WriteHeader(http.StatusGatewayTimeout)
	}))

	rr := httptest.NewRecorder()
	start := time.Now()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !hasDeadline || deadline.Before(start) {
		t.Fatalf("expected a deadline after start, got %v (%v)", deadline, hasDeadline)
	}
	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected handler status to pass through, got %d", rr.Code)
	}
}

func TestTimeoutDisabled(t *testing.T) {
	h := Timeout(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); ok {
			t.Errorf("no deadline expected")
		}
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestCORS(t *testing.T) {
	var called bool
	h := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	get := httptest.NewRequest(http.MethodGet, "/api/characters", nil)
	get.Header.Set("Origin", "http://localhost:4200")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, get)
	if !called {
		t.Fatalf("expected GET to reach the handler")
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing allow-origin header")
	}

	called = false
	pre := httptest.NewRequest(http.MethodOptions, "/api/characters", nil)
	pre.Header.Set("Origin", "http://localhost:4200")
	pre.Header.Set("Access-Control-Request-Method", "GET")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, pre)

	if called {
		t.Fatalf("preflight must not reach the handler")
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("missing allow-methods header")
	}
	if rr.Header().Get("Access-Control-Max-Age") != "600" {
		t.Fatalf("expected max-age 600, got %q", rr.Header().Get("Access-Control-Max-Age"))
	}
}
