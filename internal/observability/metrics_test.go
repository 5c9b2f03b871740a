package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.IncAffinityFallback("store_error")
	m.IncDataQuality("", "", "")
	m.SetBreakerState("neo4j", 2)
	m.IncCache("hit")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler status: want=503 got=%d", rec.Code)
	}
}

func TestMetricsCountAndExpose(t *testing.T) {
	m := NewMetrics()
	m.IncAffinityFallback("store_error")
	m.IncAffinityFallback("store_error")
	m.IncDataQuality("graph.student", "coerced_enum", "")

	if got := testutil.ToFloat64(m.affinityFallbacks.WithLabelValues("store_error")); got != 2 {
		t.Fatalf("fallbacks: want=2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.dataQuality.WithLabelValues("graph.student", "coerced_enum", "none")); got != 1 {
		t.Fatalf("data quality: want=1 got=%v", got)
	}

	m.ObserveAPI("GET", "/api/v1/students", "200", 20*time.Millisecond)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "tutormatch_api_requests_total") {
		t.Fatalf("exposition missing api counter:\n%s", rec.Body.String())
	}
}

func TestDataQualityReporterCounts(t *testing.T) {
	m := NewMetrics()
	r := NewDataQualityReporter(nil, m)
	r.Report(context.Background(), "graph.instructor",
		DataQualityIssue{Entity: "Instructor", Key: "prof", Field: "class_mode", Issue: "coerced_enum", Raw: "remote"},
	)
	if got := testutil.ToFloat64(m.dataQuality.WithLabelValues("graph.instructor", "coerced_enum", "class_mode")); got != 1 {
		t.Fatalf("want=1 got=%v", got)
	}

	var nilReporter *DataQualityReporter
	nilReporter.Report(context.Background(), "x", DataQualityIssue{})
}
