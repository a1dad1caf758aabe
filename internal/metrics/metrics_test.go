package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_CountersAndHandler(t *testing.T) {
	m := New()

	m.Reports.WithLabelValues("ok").Inc()
	m.Reports.WithLabelValues("ok").Inc()
	m.Reports.WithLabelValues("invalid").Inc()
	m.PurgedFiles.Add(3)

	if got := testutil.ToFloat64(m.Reports.WithLabelValues("ok")); got != 2 {
		t.Fatalf("reports ok=%v", got)
	}
	if got := testutil.ToFloat64(m.PurgedFiles); got != 3 {
		t.Fatalf("purged=%v", got)
	}

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`stockpulse_reports_total{result="ok"} 2`, "stockpulse_purged_uploads_total 3", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Uploads.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(b.Uploads.WithLabelValues("ok")); got != 0 {
		t.Fatalf("registries leak between instances: %v", got)
	}
}
