package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/airports", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.CollectAndCount(HTTPRequestDurationSeconds)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/airports?q=ber", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	if got := testutil.CollectAndCount(HTTPRequestDurationSeconds); got != before+1 {
		t.Fatalf("expected one new series, got %d (before %d)", got, before)
	}
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit"))
	CacheLookupsTotal.WithLabelValues("hit").Inc()
	if got := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit")); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}
