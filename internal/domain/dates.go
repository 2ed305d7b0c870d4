package domain

import "time"

const (
	// DateLayout is the wire format for date-only values.
	DateLayout = "2006-01-02"

	// DueThisWeekDays is the forward window, inclusive of today, used for
	// "due this week" in both global and per-assignee analytics.
	DueThisWeekDays = 7
)

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// DaysBetween counts calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours() / 24)
}

// WeekWindow returns the inclusive [today, today+7] due window.
func WeekWindow(today time.Time) (time.Time, time.Time) {
	start := Day(today)
	return start, start.AddDate(0, 0, DueThisWeekDays)
}

// IsOverdue: due strictly before today and not completed or cancelled.
func IsOverdue(t *CaseTask, today time.Time) bool {
	if t == nil {
		return false
	}
	return Day(t.DueDate).Before(Day(today)) && !t.Status.Closed()
}

func IsDueOn(t *CaseTask, day time.Time) bool {
	if t == nil {
		return false
	}
	return Day(t.DueDate).Equal(Day(day))
}

// IsDueBetween checks start <= dueDate <= end.
func IsDueBetween(t *CaseTask, start, end time.Time) bool {
	if t == nil {
		return false
	}
	d := Day(t.DueDate)
	return !d.Before(Day(start)) && !d.After(Day(end))
}

// IsDueBy matches PENDING tasks due on or before date. Other statuses are
// excluded even when their due date qualifies.
func IsDueBy(t *CaseTask, date time.Time) bool {
	if t == nil {
		return false
	}
	return t.Status == TaskStatusPending && !Day(t.DueDate).After(Day(date))
}
