package summarizer

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Mock returns a canned result for any input. It stands in for the real
// service in local development.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Summarize(ctx context.Context, reportContent string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	summary := "Mock summary: The patient shows signs of work-related injury with recommended treatment plan."
	rating := decimal.RequireFromString("15.5")
	restrictions := "Light duty, no lifting over 20 pounds"
	treatment := "Physical therapy 3x per week for 6 weeks"

	res := &Result{
		Summary:                  &summary,
		DisabilityRating:         &rating,
		WorkRestrictions:         &restrictions,
		TreatmentRecommendations: &treatment,
	}
	raw, err := json.Marshal(res)
	if err == nil {
		res.Raw = raw
	}
	return res, nil
}
