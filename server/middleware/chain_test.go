package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skillsenselab/freightway/server/middleware"
)

// ---------------------------------------------------------------------------
// Chain
// ---------------------------------------------------------------------------

func appendMiddleware(trace *[]string, name string) middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trace = append(*trace, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestChain_OrdersOutsideIn(t *testing.T) {
	var trace []string
	handler := middleware.Chain(
		appendMiddleware(&trace, "outer"),
		appendMiddleware(&trace, "inner"),
	)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		trace = append(trace, "handler")
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	want := []string{"outer", "inner", "handler"}
	if len(trace) != len(want) {
		t.Fatalf("expected %v, got %v", want, trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, trace)
		}
	}
}

func TestChain_Empty(t *testing.T) {
	handler := middleware.Chain()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected passthrough, got %d", rr.Code)
	}
}
