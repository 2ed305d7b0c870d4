package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Result is the structured output of a summarization call. Every field is
// optional on the wire; absent fields stay nil.
type Result struct {
	Summary                  *string          `json:"summary"`
	DisabilityRating         *decimal.Decimal `json:"disabilityRating"`
	WorkRestrictions         *string          `json:"workRestrictions"`
	TreatmentRecommendations *string          `json:"treatmentRecommendations"`

	Raw json.RawMessage `json:"-"`
}

// HasSummary reports whether the result carries a non-blank summary.
func (r *Result) HasSummary() bool {
	return r != nil && r.Summary != nil && strings.TrimSpace(*r.Summary) != ""
}

var errMissingSummary = errors.New("summarizer response missing summary")

// Engine turns raw report text into summary fields.
type Engine interface {
	Summarize(ctx context.Context, reportContent string) (*Result, error)
}

type request struct {
	ReportContent string `json:"reportContent"`
}
