package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rsplitstone/compcase-backend/internal/app"
	"github.com/Rsplitstone/compcase-backend/internal/jobs/sweeper"
	"github.com/Rsplitstone/compcase-backend/internal/platform/dbctx"
)

func main() {
	var overdue, summaries, dryRun bool
	flag.BoolVar(&overdue, "overdue", false, "mark pending and in-progress tasks past their due date as OVERDUE")
	flag.BoolVar(&summaries, "summaries", false, "summarize every report without an AI summary")
	flag.BoolVar(&dryRun, "dry-run", false, "list candidates without changing anything")
	flag.Parse()

	if !overdue && !summaries {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -overdue and/or -summaries")
		flag.Usage()
		os.Exit(2)
	}

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dryRun {
		if err := listCandidates(ctx, application, overdue, summaries); err != nil {
			fmt.Fprintf(os.Stderr, "dry run: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var jobs []string
	if overdue {
		jobs = append(jobs, sweeper.JobOverdue)
	}
	if summaries {
		jobs = append(jobs, sweeper.JobSummaries)
	}
	if err := application.Sweeper.RunOnce(ctx, jobs...); err != nil {
		fmt.Fprintf(os.Stderr, "sweep: %v\n", err)
		os.Exit(1)
	}
}

func listCandidates(ctx context.Context, a *app.App, overdue, summaries bool) error {
	dbc := dbctx.Context{Ctx: ctx}
	if overdue {
		tasks, err := a.Services.Task.ListOverdue(dbc)
		if err != nil {
			return err
		}
		fmt.Printf("overdue tasks: %d\n", len(tasks))
		for _, t := range tasks {
			fmt.Printf("  task=%d case=%d status=%s due=%s title=%q\n", t.ID, t.CaseID, t.Status, t.DueDate.Format("2006-01-02"), t.Title)
		}
	}
	if summaries {
		reports, err := a.Services.Report.ListNeedingSummary(dbc)
		if err != nil {
			return err
		}
		fmt.Printf("reports needing summary: %d\n", len(reports))
		for _, r := range reports {
			fmt.Printf("  report=%d case=%d doctor=%q\n", r.ID, r.CaseID, r.DoctorName)
		}
	}
	return nil
}
