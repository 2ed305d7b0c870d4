package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/Rsplitstone/compcase-backend/internal/observability"
	"github.com/Rsplitstone/compcase-backend/internal/platform/dbctx"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
	"github.com/Rsplitstone/compcase-backend/internal/services"
)

const (
	JobOverdue   = "overdue"
	JobSummaries = "summaries"
)

type OverdueMarker interface {
	MarkOverdueTasks(dbc dbctx.Context) (int, error)
}

type SummaryBatcher interface {
	GenerateAISummariesForPendingReports(ctx context.Context) (*services.BatchResult, error)
}

// Sweeper periodically marks overdue tasks and summarizes pending reports.
// Each run is independent; a failing or panicking job never stops the loop.
type Sweeper struct {
	log      *logger.Logger
	tasks    OverdueMarker
	reports  SummaryBatcher
	metrics  *observability.Metrics
	interval time.Duration
}

func New(baseLog *logger.Logger, tasks OverdueMarker, reports SummaryBatcher, metrics *observability.Metrics, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		log:      baseLog.With("component", "Sweeper"),
		tasks:    tasks,
		reports:  reports,
		metrics:  metrics,
		interval: interval,
	}
}

// Start runs both jobs once immediately and then on every tick until ctx is
// done.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.RunOnce(ctx, JobOverdue, JobSummaries)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx, JobOverdue, JobSummaries)
			}
		}
	}()
}

// RunOnce runs the named jobs in order and returns the first error seen.
func (s *Sweeper) RunOnce(ctx context.Context, jobs ...string) error {
	var first error
	for _, job := range jobs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := s.run(ctx, job)
		s.metrics.ObserveSweep(job, err)
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Sweeper) run(ctx context.Context, job string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Sweep job panic", "job", job, "panic", r)
			err = fmt.Errorf("sweep %s: panic: %v", job, r)
		}
	}()

	start := time.Now()
	switch job {
	case JobOverdue:
		if s.tasks == nil {
			return nil
		}
		n, err := s.tasks.MarkOverdueTasks(dbctx.Context{Ctx: ctx})
		if err != nil {
			s.log.Warn("Overdue sweep failed", "error", err)
			return fmt.Errorf("sweep %s: %w", job, err)
		}
		s.metrics.ObserveOverdueMarked(n)
		s.log.Info("Overdue sweep done", "marked", n, "duration_ms", time.Since(start).Milliseconds())
	case JobSummaries:
		if s.reports == nil {
			return nil
		}
		res, err := s.reports.GenerateAISummariesForPendingReports(ctx)
		if err != nil {
			s.log.Warn("Summary sweep failed", "error", err)
			return fmt.Errorf("sweep %s: %w", job, err)
		}
		s.metrics.ObserveSummaryBatch(res.Succeeded, len(res.Failures))
		s.log.Info("Summary sweep done",
			"run_id", res.RunID.String(),
			"attempted", res.Attempted,
			"succeeded", res.Succeeded,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	default:
		return fmt.Errorf("unknown sweep job %q", job)
	}
	return nil
}
