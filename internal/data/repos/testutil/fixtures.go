package testutil

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/domain"
)

// SeedCase inserts a minimal OPEN case.
func SeedCase(tb testing.TB, conn *gorm.DB, caseNumber string, injury time.Time) *domain.WorkersCompCase {
	tb.Helper()
	c := &domain.WorkersCompCase{
		CaseNumber:        caseNumber,
		ClaimantName:      "Claimant " + caseNumber,
		EmployerName:      "Employer " + caseNumber,
		InjuryDate:        injury,
		InjuryDescription: "lifting injury",
		Status:            domain.CaseStatusOpen,
	}
	if err := conn.Create(c).Error; err != nil {
		tb.Fatalf("seed case %s: %v", caseNumber, err)
	}
	return c
}

// SeedTask inserts a task due on due with the given status.
func SeedTask(tb testing.TB, conn *gorm.DB, caseID uint, title string, due time.Time, status domain.TaskStatus) *domain.CaseTask {
	tb.Helper()
	t := &domain.CaseTask{
		CaseID:   caseID,
		Title:    title,
		TaskType: domain.TaskTypeDocumentReview,
		Priority: domain.TaskPriorityMedium,
		Status:   status,
		DueDate:  due,
	}
	if err := conn.Create(t).Error; err != nil {
		tb.Fatalf("seed task %s: %v", title, err)
	}
	return t
}

// SeedReport inserts an unsummarized report with content.
func SeedReport(tb testing.TB, conn *gorm.DB, caseID uint, doctor string, content string) *domain.AMEReport {
	tb.Helper()
	r := &domain.AMEReport{
		CaseID:          caseID,
		DoctorName:      doctor,
		Specialty:       "Orthopedics",
		ExaminationDate: Date(2024, time.March, 1),
		ReportContent:   content,
		FilePath:        "/reports/" + doctor + ".pdf",
	}
	if err := conn.Create(r).Error; err != nil {
		tb.Fatalf("seed report %s: %v", doctor, err)
	}
	return r
}

func PtrString(v string) *string { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

// Seeder binds the seed helpers to one test and connection.
type Seeder struct {
	TB   testing.TB
	Conn *gorm.DB
}

func (s *Seeder) Case(caseNumber string, injury time.Time) *domain.WorkersCompCase {
	return SeedCase(s.TB, s.Conn, caseNumber, injury)
}

func (s *Seeder) Task(caseID uint, title string, due time.Time, status domain.TaskStatus) *domain.CaseTask {
	return SeedTask(s.TB, s.Conn, caseID, title, due, status)
}

func (s *Seeder) Report(caseID uint, doctor, content string) *domain.AMEReport {
	return SeedReport(s.TB, s.Conn, caseID, doctor, content)
}
