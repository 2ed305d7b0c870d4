package observability

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// Metrics holds the process-wide instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	apiRequests *series
	apiLatency  *histogram
	apiInflight *series

	summarizerCalls   *series
	summarizerLatency *histogram
	batchReports      *series
	overdueMarked     *series
	sweepRuns         *series
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: newSeries("counter", "compcase_api_requests_total", "HTTP requests by method, route and status.", "method", "route", "status"),
		apiLatency:  newHistogram("compcase_api_request_duration_seconds", "HTTP request latency.", "method", "route"),
		apiInflight: newSeries("gauge", "compcase_api_inflight_requests", "HTTP requests currently being served."),

		summarizerCalls:   newSeries("counter", "compcase_summarizer_calls_total", "Summarization calls by outcome.", "outcome"),
		summarizerLatency: newHistogram("compcase_summarizer_call_duration_seconds", "Summarization call latency.", "outcome"),
		batchReports:      newSeries("counter", "compcase_summary_batch_reports_total", "Reports processed by summary batches, by outcome.", "outcome"),
		overdueMarked:     newSeries("counter", "compcase_tasks_marked_overdue_total", "Tasks moved to OVERDUE by sweeps."),
		sweepRuns:         newSeries("counter", "compcase_sweep_runs_total", "Sweeper runs by job and status.", "job", "status"),
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.add(1, method, route, strconv.Itoa(status))
	m.apiLatency.observe(dur.Seconds(), method, route)
}

func (m *Metrics) InflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.add(1)
}

func (m *Metrics) InflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.add(-1)
}

func (m *Metrics) ObserveSummarizerCall(err error, dur time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.summarizerCalls.add(1, outcome)
	m.summarizerLatency.observe(dur.Seconds(), outcome)
}

func (m *Metrics) ObserveSummaryBatch(succeeded, failed int) {
	if m == nil {
		return
	}
	m.batchReports.add(float64(succeeded), "succeeded")
	m.batchReports.add(float64(failed), "failed")
}

func (m *Metrics) ObserveOverdueMarked(n int) {
	if m == nil {
		return
	}
	m.overdueMarked.add(float64(n))
}

func (m *Metrics) ObserveSweep(job string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.sweepRuns.add(1, job, status)
}

// SweepRuns reads back a sweep counter.
func (m *Metrics) SweepRuns(job, status string) float64 {
	if m == nil {
		return 0
	}
	return m.sweepRuns.get(job, status)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ writeTo(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.summarizerCalls,
		m.summarizerLatency,
		m.batchReports,
		m.overdueMarked,
		m.sweepRuns,
	}
	for _, wr := range writers {
		if err := wr.writeTo(w); err != nil {
			return err
		}
	}
	return nil
}
