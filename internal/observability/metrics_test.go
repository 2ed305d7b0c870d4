package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMetricsWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/case-tasks/:id", 200, 30*time.Millisecond)
	m.ObserveAPI("GET", "/api/case-tasks/:id", 200, 2*time.Second)
	m.ObserveSummaryBatch(4, 1)
	m.ObserveSweep("overdue", nil)
	m.ObserveSweep("overdue", errors.New("db down"))

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`compcase_api_requests_total{method="GET",route="/api/case-tasks/:id",status="200"} 2`,
		`compcase_api_request_duration_seconds_bucket{method="GET",route="/api/case-tasks/:id",le="0.05"} 1`,
		`compcase_api_request_duration_seconds_count{method="GET",route="/api/case-tasks/:id"} 2`,
		`compcase_summary_batch_reports_total{outcome="succeeded"} 4`,
		`# TYPE compcase_sweep_runs_total counter`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if got := m.SweepRuns("overdue", "error"); got != 1 {
		t.Fatalf("SweepRuns: want 1 got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.ObserveOverdueMarked(3)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
}

func TestEscapeLabel(t *testing.T) {
	if got := escapeLabel(`a"b\c`); got != `a\"b\\c` {
		t.Fatalf("escapeLabel: got %q", got)
	}
}
