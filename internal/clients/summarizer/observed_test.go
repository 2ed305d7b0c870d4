package summarizer

import (
	"context"
	"testing"
	"time"
)

type blankEngine struct{}

func (blankEngine) Summarize(context.Context, string) (*Result, error) {
	blank := "  "
	return &Result{Summary: &blank}, nil
}

func TestObserveReportsOutcome(t *testing.T) {
	var errs []error
	record := func(err error, _ time.Duration) { errs = append(errs, err) }

	if _, err := Observe(NewMock(), record).Summarize(context.Background(), "x"); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	res, err := Observe(blankEngine{}, record).Summarize(context.Background(), "x")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if res.HasSummary() {
		t.Fatalf("expected blank summary to be reported as missing")
	}
	if len(errs) != 2 || errs[0] != nil || errs[1] == nil {
		t.Fatalf("unexpected observations: %v", errs)
	}
}
