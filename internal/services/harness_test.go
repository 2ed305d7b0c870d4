package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/clients/summarizer"
	"github.com/Rsplitstone/compcase-backend/internal/data/repos"
	"github.com/Rsplitstone/compcase-backend/internal/data/repos/testutil"
	"github.com/Rsplitstone/compcase-backend/internal/domain"
)

type testEnv struct {
	now     time.Time
	conn    *gorm.DB
	events  *recordingPublisher
	cases   CaseService
	tasks   TaskService
	reports ReportService
}

func newTestEnv(t *testing.T, now time.Time, engine Summarizer) *testEnv {
	t.Helper()
	conn := testutil.DB(t)
	log := testutil.Logger(t)
	clock := FixedClock(now)
	events := &recordingPublisher{}

	caseRepo := repos.NewWorkersCompCaseRepo(conn, log)
	taskRepo := repos.NewCaseTaskRepo(conn, log)
	reportRepo := repos.NewAMEReportRepo(conn, log)

	return &testEnv{
		now:    now,
		conn:   conn,
		events: events,
		cases:  NewCaseService(conn, log, caseRepo, DefaultBenefitSchedule(), clock),
		tasks:  NewTaskService(conn, log, taskRepo, caseRepo, events, clock),
		reports: NewReportService(conn, log, reportRepo, caseRepo, engine, events, clock, ReportServiceOptions{
			SummaryTimeout:   2 * time.Second,
			BatchConcurrency: 3,
		}),
	}
}

// reportService builds a ReportService over env's database with its own
// engine and options.
func (e *testEnv) reportService(t *testing.T, engine Summarizer, opts ReportServiceOptions) ReportService {
	t.Helper()
	log := testutil.Logger(t)
	return NewReportService(e.conn, log, repos.NewAMEReportRepo(e.conn, log), repos.NewWorkersCompCaseRepo(e.conn, log),
		engine, e.events, FixedClock(e.now), opts)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// scriptedEngine fails for any report content listed in fail and otherwise
// returns the mock result.
type scriptedEngine struct {
	fail map[string]error
	mock *summarizer.Mock

	mu    sync.Mutex
	calls int
}

func (e *scriptedEngine) Summarize(ctx context.Context, content string) (*summarizer.Result, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if err, ok := e.fail[content]; ok {
		return nil, err
	}
	return e.mock.Summarize(ctx, content)
}

// gatedEngine holds every call until release is closed and signals started
// when the first call arrives.
type gatedEngine struct {
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func newGatedEngine() *gatedEngine {
	return &gatedEngine{started: make(chan struct{}), release: make(chan struct{})}
}

func (e *gatedEngine) Summarize(ctx context.Context, content string) (*summarizer.Result, error) {
	e.mu.Lock()
	e.calls++
	if e.calls == 1 {
		close(e.started)
	}
	e.mu.Unlock()
	select {
	case <-e.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return summarizer.NewMock().Summarize(ctx, content)
}

func (e *gatedEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// stallingEngine never answers; it returns once ctx is done.
type stallingEngine struct{}

func (stallingEngine) Summarize(ctx context.Context, _ string) (*summarizer.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
