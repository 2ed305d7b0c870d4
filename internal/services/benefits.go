package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// StatuteAlertDays is the number of days since injury after which a case is
// flagged as approaching the one-year limitations period.
const StatuteAlertDays = 300

// BenefitSchedule holds the jurisdictional constants used by the TD and PD
// formulas.
type BenefitSchedule struct {
	TDFactor        decimal.Decimal
	TDMinWeekly     decimal.Decimal
	TDMaxWeekly     decimal.Decimal
	PDWeeksPerPoint decimal.Decimal
}

func DefaultBenefitSchedule() BenefitSchedule {
	return BenefitSchedule{
		TDFactor:        decimal.RequireFromString("0.6667"),
		TDMinWeekly:     decimal.RequireFromString("230.95"),
		TDMaxWeekly:     decimal.RequireFromString("1539.71"),
		PDWeeksPerPoint: decimal.NewFromInt(3),
	}
}

type benefitScheduleFile struct {
	TDFactor        *float64 `yaml:"td_factor"`
	TDMinWeekly     *float64 `yaml:"td_min_weekly"`
	TDMaxWeekly     *float64 `yaml:"td_max_weekly"`
	PDWeeksPerPoint *float64 `yaml:"pd_weeks_per_point"`
}

// LoadBenefitSchedule overlays values from a YAML file on the defaults. An
// empty path returns the defaults.
func LoadBenefitSchedule(path string) (BenefitSchedule, error) {
	sched := DefaultBenefitSchedule()
	path = strings.TrimSpace(path)
	if path == "" {
		return sched, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return sched, fmt.Errorf("read benefit schedule: %w", err)
	}
	return ParseBenefitSchedule(raw)
}

func ParseBenefitSchedule(raw []byte) (BenefitSchedule, error) {
	sched := DefaultBenefitSchedule()
	var f benefitScheduleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return sched, fmt.Errorf("parse benefit schedule: %w", err)
	}
	if f.TDFactor != nil {
		sched.TDFactor = decimal.NewFromFloat(*f.TDFactor)
	}
	if f.TDMinWeekly != nil {
		sched.TDMinWeekly = decimal.NewFromFloat(*f.TDMinWeekly)
	}
	if f.TDMaxWeekly != nil {
		sched.TDMaxWeekly = decimal.NewFromFloat(*f.TDMaxWeekly)
	}
	if f.PDWeeksPerPoint != nil {
		sched.PDWeeksPerPoint = decimal.NewFromFloat(*f.PDWeeksPerPoint)
	}
	if err := sched.Validate(); err != nil {
		return sched, err
	}
	return sched, nil
}

func (s BenefitSchedule) Validate() error {
	if !s.TDFactor.IsPositive() {
		return fmt.Errorf("td_factor must be positive")
	}
	if s.TDMinWeekly.IsNegative() || s.TDMaxWeekly.LessThan(s.TDMinWeekly) {
		return fmt.Errorf("td band invalid: min=%s max=%s", s.TDMinWeekly, s.TDMaxWeekly)
	}
	if !s.PDWeeksPerPoint.IsPositive() {
		return fmt.Errorf("pd_weeks_per_point must be positive")
	}
	return nil
}

// weeklyRate is wage x factor clamped to the statutory band, unrounded.
func (s BenefitSchedule) weeklyRate(wage decimal.Decimal) decimal.Decimal {
	rate := wage.Mul(s.TDFactor)
	if rate.LessThan(s.TDMinWeekly) {
		return s.TDMinWeekly
	}
	if rate.GreaterThan(s.TDMaxWeekly) {
		return s.TDMaxWeekly
	}
	return rate
}

// TemporaryDisabilityRate returns zero for an absent wage. Rounding is half
// up to cents after clamping.
func (s BenefitSchedule) TemporaryDisabilityRate(weeklyWage decimal.NullDecimal) decimal.Decimal {
	if !weeklyWage.Valid {
		return decimal.Zero
	}
	return s.weeklyRate(weeklyWage.Decimal).Round(2)
}

// PermanentDisabilityIndemnity is a simplified schedule: the clamped weekly
// rate times (rating x weeks-per-point), rounded half up to cents. Either
// input absent yields zero.
func (s BenefitSchedule) PermanentDisabilityIndemnity(disabilityRating, weeklyWage decimal.NullDecimal) decimal.Decimal {
	if !disabilityRating.Valid || !weeklyWage.Valid {
		return decimal.Zero
	}
	weeks := disabilityRating.Decimal.Mul(s.PDWeeksPerPoint)
	return s.weeklyRate(weeklyWage.Decimal).Mul(weeks).Round(2)
}
