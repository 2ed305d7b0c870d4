package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaseStatus string

const (
	CaseStatusOpen          CaseStatus = "OPEN"
	CaseStatusPendingReview CaseStatus = "PENDING_REVIEW"
	CaseStatusClosed        CaseStatus = "CLOSED"
	CaseStatusSettled       CaseStatus = "SETTLED"
	CaseStatusLitigated     CaseStatus = "LITIGATED"
)

var caseStatuses = []CaseStatus{
	CaseStatusOpen,
	CaseStatusPendingReview,
	CaseStatusClosed,
	CaseStatusSettled,
	CaseStatusLitigated,
}

func (s CaseStatus) Valid() bool {
	for _, v := range caseStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseCaseStatus(raw string) (CaseStatus, error) {
	s := CaseStatus(normalizeEnum(raw))
	if !s.Valid() {
		return "", invalidEnum("case status", raw)
	}
	return s, nil
}

// WorkersCompCase is a tracked workers' compensation claim.
type WorkersCompCase struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	CaseNumber        string              `gorm:"column:case_number;not null;uniqueIndex" json:"case_number"`
	ClaimantName      string              `gorm:"column:claimant_name;not null;index" json:"claimant_name"`
	EmployerName      string              `gorm:"column:employer_name;not null;index" json:"employer_name"`
	InjuryDate        time.Time           `gorm:"column:injury_date;type:date;not null;index" json:"injury_date"`
	InjuryDescription string              `gorm:"column:injury_description;type:text;not null" json:"injury_description"`
	Status            CaseStatus          `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	AdjusterName      string              `gorm:"column:adjuster_name;index" json:"adjuster_name,omitempty"`
	AdjusterID        string              `gorm:"column:adjuster_id" json:"adjuster_id,omitempty"`
	WeeklyWage        decimal.NullDecimal `gorm:"column:weekly_wage;type:decimal(10,2)" json:"weekly_wage"`
	DisabilityRating  decimal.NullDecimal `gorm:"column:disability_rating;type:decimal(5,2)" json:"disability_rating"`
	MMIDate           *time.Time          `gorm:"column:mmi_date;type:date" json:"mmi_date,omitempty"`
	Notes             string              `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt         time.Time           `gorm:"not null;index" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"not null" json:"updated_at"`
}

func (WorkersCompCase) TableName() string { return "workers_comp_case" }

func (c *WorkersCompCase) BeforeSave(tx *gorm.DB) error {
	c.InjuryDate = Day(c.InjuryDate)
	if c.MMIDate != nil {
		d := Day(*c.MMIDate)
		c.MMIDate = &d
	}
	if c.Status == "" {
		c.Status = CaseStatusOpen
	}
	return nil
}
