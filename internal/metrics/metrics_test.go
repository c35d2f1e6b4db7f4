package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFrameWritten(t *testing.T) {
	m := New()

	m.FrameWritten(48)
	m.FrameWritten(48)

	if got := testutil.ToFloat64(m.framesProcessed); got != 2 {
		t.Errorf("frames_processed_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.bytesTransformed); got != 96 {
		t.Errorf("bytes_transformed_total = %v, want 96", got)
	}
}

func TestRunLifecycle(t *testing.T) {
	m := New()

	m.RunStarted()
	if got := testutil.ToFloat64(m.activeRuns); got != 1 {
		t.Errorf("active_runs = %v, want 1", got)
	}

	m.RunFinished("completed")
	if got := testutil.ToFloat64(m.activeRuns); got != 0 {
		t.Errorf("active_runs after finish = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues("completed")); got != 1 {
		t.Errorf("runs_total{outcome=completed} = %v, want 1", got)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.FrameWritten(100)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "framecloak_frames_processed_total 1") {
		t.Errorf("metrics output missing frame counter:\n%s", body)
	}
}
