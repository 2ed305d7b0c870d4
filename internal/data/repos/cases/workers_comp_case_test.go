package cases

import (
	"testing"
	"time"

	"github.com/Rsplitstone/compcase-backend/internal/data/db"
	"github.com/Rsplitstone/compcase-backend/internal/data/repos/testutil"
	"github.com/Rsplitstone/compcase-backend/internal/domain"
)

func TestWorkersCompCaseRepo(t *testing.T) {
	conn := testutil.DB(t)
	dbc := testutil.Ctx()
	repo := NewWorkersCompCaseRepo(conn, testutil.Logger(t))

	injury := testutil.Date(2024, time.January, 15)
	a := &domain.WorkersCompCase{
		CaseNumber:        "WC-1",
		ClaimantName:      "Maria Gonzalez",
		EmployerName:      "Acme Warehousing",
		InjuryDate:        injury,
		InjuryDescription: "back strain",
		AdjusterName:      "Pat",
		DisabilityRating:  testutil.NullDec("22.50"),
	}
	b := &domain.WorkersCompCase{
		CaseNumber:        "WC-2",
		ClaimantName:      "John O'Neil",
		EmployerName:      "Harbor 100% Logistics",
		InjuryDate:        injury.AddDate(0, 2, 0),
		InjuryDescription: "wrist fracture",
		Status:            domain.CaseStatusSettled,
		DisabilityRating:  testutil.NullDec("8"),
	}
	for _, c := range []*domain.WorkersCompCase{a, b} {
		if _, err := repo.Create(dbc, c); err != nil {
			t.Fatalf("Create %s: %v", c.CaseNumber, err)
		}
	}
	if a.Status != domain.CaseStatusOpen {
		t.Fatalf("expected default status OPEN, got %s", a.Status)
	}

	dup := &domain.WorkersCompCase{
		CaseNumber:        "WC-1",
		ClaimantName:      "x",
		EmployerName:      "y",
		InjuryDate:        injury,
		InjuryDescription: "z",
	}
	if _, err := repo.Create(dbc, dup); !db.IsUniqueViolation(err) {
		t.Fatalf("Create duplicate: expected unique violation, got %v", err)
	}

	got, err := repo.GetByCaseNumber(dbc, "WC-2")
	if err != nil || got == nil || got.ID != b.ID {
		t.Fatalf("GetByCaseNumber: row=%v err=%v", got, err)
	}
	if !got.InjuryDate.Equal(injury.AddDate(0, 2, 0)) {
		t.Fatalf("GetByCaseNumber: injury date round trip, got %v", got.InjuryDate)
	}

	if rows, err := repo.SearchByClaimantName(dbc, "GONZ"); err != nil || len(rows) != 1 || rows[0].ID != a.ID {
		t.Fatalf("SearchByClaimantName: err=%v rows=%d", err, len(rows))
	}
	if rows, err := repo.SearchByEmployerName(dbc, "100%"); err != nil || len(rows) != 1 || rows[0].ID != b.ID {
		t.Fatalf("SearchByEmployerName literal percent: err=%v rows=%d", err, len(rows))
	}
	if rows, err := repo.SearchByEmployerName(dbc, "%"); err != nil || len(rows) != 1 {
		t.Fatalf("SearchByEmployerName wildcard-only: err=%v rows=%d", err, len(rows))
	}

	if rows, err := repo.ListByDisabilityRatingAtLeast(dbc, testutil.Dec("22.5")); err != nil || len(rows) != 1 || rows[0].ID != a.ID {
		t.Fatalf("ListByDisabilityRatingAtLeast inclusive: err=%v rows=%d", err, len(rows))
	}
	if rows, err := repo.ListByInjuryDateBetween(dbc, injury, injury); err != nil || len(rows) != 1 {
		t.Fatalf("ListByInjuryDateBetween inclusive: err=%v rows=%d", err, len(rows))
	}
	if rows, err := repo.ListOpenWithoutMMI(dbc); err != nil || len(rows) != 1 || rows[0].ID != a.ID {
		t.Fatalf("ListOpenWithoutMMI: err=%v rows=%d", err, len(rows))
	}
	if n, err := repo.CountByStatus(dbc, domain.CaseStatusSettled); err != nil || n != 1 {
		t.Fatalf("CountByStatus: err=%v n=%d", err, n)
	}
	if rows, err := repo.ListByAdjusterName(dbc, "Pat"); err != nil || len(rows) != 1 {
		t.Fatalf("ListByAdjusterName: err=%v rows=%d", err, len(rows))
	}

	ok, err := repo.Delete(dbc, a.ID)
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	if exists, err := repo.Exists(dbc, a.ID); err != nil || exists {
		t.Fatalf("Exists after delete: exists=%v err=%v", exists, err)
	}
}

func TestWorkersCompCaseRepoSearchFoldsNonASCII(t *testing.T) {
	conn := testutil.DB(t)
	dbc := testutil.Ctx()
	repo := NewWorkersCompCaseRepo(conn, testutil.Logger(t))

	c := &domain.WorkersCompCase{
		CaseNumber:        "WC-EU",
		ClaimantName:      "ÉLODIE MÜLLER",
		EmployerName:      "Société Générale",
		InjuryDate:        testutil.Date(2024, time.March, 4),
		InjuryDescription: "shoulder",
	}
	if _, err := repo.Create(dbc, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, term := range []string{"ÉLODIE", "élodie", "MÜLLER", "müller", "lodie", "Élodie Müller"} {
		rows, err := repo.SearchByClaimantName(dbc, term)
		if err != nil {
			t.Fatalf("SearchByClaimantName %q: %v", term, err)
		}
		if len(rows) != 1 || rows[0].ID != c.ID {
			t.Fatalf("SearchByClaimantName %q: expected 1 match, got %d", term, len(rows))
		}
	}
	if rows, err := repo.SearchByEmployerName(dbc, "SOCIÉTÉ"); err != nil || len(rows) != 1 {
		t.Fatalf("SearchByEmployerName: err=%v rows=%d", err, len(rows))
	}
	if rows, err := repo.SearchByClaimantName(dbc, "mueller"); err != nil || len(rows) != 0 {
		t.Fatalf("SearchByClaimantName no match: err=%v rows=%d", err, len(rows))
	}
}
