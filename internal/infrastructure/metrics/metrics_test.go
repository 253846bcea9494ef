package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegistry(registry, registry)

	if m.MessagesProcessed == nil || m.HTTPRequests == nil || m.DeadLetters == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.IncRetry()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestWorkerMetrics(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), prometheus.NewRegistry())

	m.ObserveMessage("success", 20*time.Millisecond)
	m.ObserveMessage("success", 30*time.Millisecond)
	m.ObserveMessage("failed", time.Millisecond)
	m.IncRetry()
	m.IncDeadLetter("published")
	m.SetDiscrepancies(3)

	if got := testutil.ToFloat64(m.MessagesProcessed.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.MessagesProcessed.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.Retries); got != 1 {
		t.Fatalf("expected 1 retry, got %v", got)
	}
	if got := testutil.ToFloat64(m.DeadLetters.WithLabelValues("published")); got != 1 {
		t.Fatalf("expected 1 dead letter, got %v", got)
	}
	if got := testutil.ToFloat64(m.LedgerDiscrepancies); got != 3 {
		t.Fatalf("expected 3 discrepancies, got %v", got)
	}
}

func TestHTTPMetrics(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), prometheus.NewRegistry())

	m.RequestStarted()
	if got := testutil.ToFloat64(m.HTTPRequestsInFlight); got != 1 {
		t.Fatalf("expected 1 in flight, got %v", got)
	}

	m.ObserveRequest(http.MethodPost, "/api/v1/transactions", http.StatusAccepted, time.Millisecond)
	if got := testutil.ToFloat64(m.HTTPRequestsInFlight); got != 0 {
		t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/v1/transactions", "202")); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveMessage("rejected", time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `txledger_messages_processed_total{outcome="rejected"} 1`) {
		t.Fatalf("expected message counter in output, got %s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected runtime collector in output")
	}
}
