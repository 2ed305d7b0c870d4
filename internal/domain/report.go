package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AMEReport is an agreed medical examiner's report attached to a case.
// A nil AISummary marks the report as still needing summarization.
type AMEReport struct {
	ID                          uint                `gorm:"primaryKey" json:"id"`
	CaseID                      uint                `gorm:"column:case_id;not null;index" json:"case_id"`
	DoctorName                  string              `gorm:"column:doctor_name;not null;index" json:"doctor_name"`
	Specialty                   string              `gorm:"column:specialty;not null;index" json:"specialty"`
	ExaminationDate             time.Time           `gorm:"column:examination_date;type:date;not null;index" json:"examination_date"`
	ReportContent               string              `gorm:"column:report_content;type:text" json:"report_content,omitempty"`
	AISummary                   *string             `gorm:"column:ai_summary;type:text" json:"ai_summary"`
	RecommendedDisabilityRating decimal.NullDecimal `gorm:"column:recommended_disability_rating;type:decimal(5,2)" json:"recommended_disability_rating"`
	WorkRestrictions            *string             `gorm:"column:work_restrictions;type:text" json:"work_restrictions"`
	TreatmentRecommendations    *string             `gorm:"column:treatment_recommendations;type:text" json:"treatment_recommendations"`
	IsFinal                     bool                `gorm:"column:is_final;not null;default:false;index" json:"is_final"`
	FilePath                    string              `gorm:"column:file_path;not null" json:"file_path"`
	AIResponse                  datatypes.JSON      `gorm:"column:ai_response" json:"-"`
	SummarizedAt                *time.Time          `gorm:"column:summarized_at" json:"summarized_at,omitempty"`
	CreatedAt                   time.Time           `gorm:"not null;index" json:"created_at"`
	UpdatedAt                   time.Time           `gorm:"not null" json:"updated_at"`
}

func (AMEReport) TableName() string { return "ame_report" }

func (r *AMEReport) BeforeSave(tx *gorm.DB) error {
	r.ExaminationDate = Day(r.ExaminationDate)
	return nil
}

// NeedsSummary reports whether the report has not been summarized yet.
func (r *AMEReport) NeedsSummary() bool { return r.AISummary == nil }
