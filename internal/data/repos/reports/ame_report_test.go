package reports

import (
	"testing"
	"time"

	"github.com/Rsplitstone/compcase-backend/internal/data/repos/testutil"
)

func TestAMEReportRepoSummaryPredicates(t *testing.T) {
	conn := testutil.DB(t)
	dbc := testutil.Ctx()
	repo := NewAMEReportRepo(conn, testutil.Logger(t))

	c := testutil.SeedCase(t, conn, "WC-9", testutil.Date(2024, time.February, 2))
	first := testutil.SeedReport(t, conn, c.ID, "Dr. Alvarez", "content a")
	second := testutil.SeedReport(t, conn, c.ID, "Dr. Brooks", "content b")

	if n, err := repo.CountNeedingSummary(dbc); err != nil || n != 2 {
		t.Fatalf("CountNeedingSummary: err=%v n=%d", err, n)
	}

	ok, err := repo.UpdateFields(dbc, first.ID, map[string]interface{}{
		"ai_summary":                    "summary",
		"recommended_disability_rating": testutil.Dec("15.5"),
		"is_final":                      true,
	})
	if err != nil || !ok {
		t.Fatalf("UpdateFields: ok=%v err=%v", ok, err)
	}

	pending, err := repo.ListNeedingSummary(dbc)
	if err != nil {
		t.Fatalf("ListNeedingSummary: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("ListNeedingSummary: expected only second report, got %d rows", len(pending))
	}
	if n, err := repo.CountWithSummary(dbc); err != nil || n != 1 {
		t.Fatalf("CountWithSummary: err=%v n=%d", err, n)
	}
	if rows, err := repo.ListFinalByCase(dbc, c.ID); err != nil || len(rows) != 1 || rows[0].ID != first.ID {
		t.Fatalf("ListFinalByCase: err=%v rows=%d", err, len(rows))
	}
	if rows, err := repo.ListByRecommendedRatingAtLeast(dbc, testutil.Dec("15.5")); err != nil || len(rows) != 1 {
		t.Fatalf("ListByRecommendedRatingAtLeast: err=%v rows=%d", err, len(rows))
	}
	if rows, err := repo.SearchByDoctorName(dbc, "brOOks"); err != nil || len(rows) != 1 || rows[0].ID != second.ID {
		t.Fatalf("SearchByDoctorName: err=%v rows=%d", err, len(rows))
	}
	exam := testutil.Date(2024, time.March, 1)
	if rows, err := repo.ListByExaminationDateBetween(dbc, exam, exam); err != nil || len(rows) != 2 {
		t.Fatalf("ListByExaminationDateBetween: err=%v rows=%d", err, len(rows))
	}

	got, err := repo.GetByID(dbc, first.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AISummary == nil || *got.AISummary != "summary" {
		t.Fatalf("GetByID: expected summary persisted, got %v", got.AISummary)
	}
	if !got.RecommendedDisabilityRating.Valid || !got.RecommendedDisabilityRating.Decimal.Equal(testutil.Dec("15.5")) {
		t.Fatalf("GetByID: expected rating 15.5, got %v", got.RecommendedDisabilityRating)
	}
}
