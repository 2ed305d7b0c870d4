package summarizer

import (
	"context"
	"time"
)

// Observe wraps engine so every call reports its outcome and latency to fn.
// A call that returns without a usable summary is reported as an error.
func Observe(engine Engine, fn func(err error, dur time.Duration)) Engine {
	if fn == nil {
		return engine
	}
	return &observed{next: engine, fn: fn}
}

type observed struct {
	next Engine
	fn   func(error, time.Duration)
}

func (o *observed) Summarize(ctx context.Context, reportContent string) (*Result, error) {
	start := time.Now()
	res, err := o.next.Summarize(ctx, reportContent)
	reportErr := err
	if err == nil && !res.HasSummary() {
		reportErr = errMissingSummary
	}
	o.fn(reportErr, time.Since(start))
	return res, err
}
