package sweeper

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Rsplitstone/compcase-backend/internal/observability"
	"github.com/Rsplitstone/compcase-backend/internal/platform/dbctx"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
	"github.com/Rsplitstone/compcase-backend/internal/services"
)

type fakeTasks struct {
	calls int
	err   error
	panic bool
}

func (f *fakeTasks) MarkOverdueTasks(dbctx.Context) (int, error) {
	f.calls++
	if f.panic {
		panic("boom")
	}
	return 3, f.err
}

type fakeReports struct{ calls int }

func (f *fakeReports) GenerateAISummariesForPendingReports(context.Context) (*services.BatchResult, error) {
	f.calls++
	return &services.BatchResult{RunID: uuid.New(), Attempted: 2, Succeeded: 1, Failures: []services.BatchFailure{{ReportID: 9, Error: "x"}}}, nil
}

func TestRunOnceRunsBothJobs(t *testing.T) {
	tasks, reports := &fakeTasks{}, &fakeReports{}
	m := observability.NewMetrics()
	s := New(logger.Nop(), tasks, reports, m, 0)

	if err := s.RunOnce(context.Background(), JobOverdue, JobSummaries); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if tasks.calls != 1 || reports.calls != 1 {
		t.Fatalf("RunOnce: calls tasks=%d reports=%d", tasks.calls, reports.calls)
	}
	if got := m.SweepRuns(JobOverdue, "ok"); got != 1 {
		t.Fatalf("SweepRuns: want 1 got %v", got)
	}
}

func TestRunOnceRecoversAndContinues(t *testing.T) {
	tasks, reports := &fakeTasks{panic: true}, &fakeReports{}
	m := observability.NewMetrics()
	s := New(logger.Nop(), tasks, reports, m, 0)

	err := s.RunOnce(context.Background(), JobOverdue, JobSummaries)
	if err == nil {
		t.Fatalf("RunOnce: expected panic surfaced as error")
	}
	if reports.calls != 1 {
		t.Fatalf("RunOnce: summaries job should still run after a panic")
	}
	if got := m.SweepRuns(JobOverdue, "error"); got != 1 {
		t.Fatalf("SweepRuns error: want 1 got %v", got)
	}
}

func TestRunOnceWrapsJobError(t *testing.T) {
	cause := errors.New("db down")
	s := New(logger.Nop(), &fakeTasks{err: cause}, nil, nil, 0)
	if err := s.RunOnce(context.Background(), JobOverdue); !errors.Is(err, cause) {
		t.Fatalf("RunOnce: expected wrapped cause, got %v", err)
	}
	if err := s.RunOnce(context.Background(), "nope"); err == nil {
		t.Fatalf("RunOnce: expected unknown job error")
	}
}
