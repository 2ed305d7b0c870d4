package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestDayAndDaysBetween(t *testing.T) {
	late := time.Date(2024, time.June, 10, 23, 59, 0, 0, time.UTC)
	if got := Day(late); !got.Equal(date(2024, time.June, 10)) {
		t.Fatalf("Day: got %v", got)
	}
	if !Day(time.Time{}).IsZero() {
		t.Fatalf("Day: zero time should stay zero")
	}
	if got := DaysBetween(date(2023, time.August, 14), late); got != 301 {
		t.Fatalf("DaysBetween: expected 301, got %d", got)
	}
	if got := DaysBetween(late, date(2024, time.June, 9)); got != -1 {
		t.Fatalf("DaysBetween: expected -1, got %d", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(date(2024, time.February, 29)) {
		t.Fatalf("ParseDate: got %v", d)
	}
	if _, err := ParseDate("02/29/2024"); err == nil {
		t.Fatalf("ParseDate: expected error for US format")
	}
}

func TestTaskDatePredicates(t *testing.T) {
	today := time.Date(2024, time.June, 10, 15, 0, 0, 0, time.UTC)
	task := func(due time.Time, status TaskStatus) *CaseTask {
		return &CaseTask{DueDate: due, Status: status}
	}

	cases := []struct {
		name    string
		task    *CaseTask
		overdue bool
		dueOn   bool
		dueBy   bool
	}{
		{"yesterday pending", task(date(2024, time.June, 9), TaskStatusPending), true, false, true},
		{"yesterday overdue status", task(date(2024, time.June, 9), TaskStatusOverdue), true, false, false},
		{"yesterday completed", task(date(2024, time.June, 9), TaskStatusCompleted), false, false, false},
		{"yesterday cancelled", task(date(2024, time.June, 9), TaskStatusCancelled), false, false, false},
		{"today in progress", task(date(2024, time.June, 10), TaskStatusInProgress), false, true, false},
		{"today pending", task(date(2024, time.June, 10), TaskStatusPending), false, true, true},
		{"tomorrow pending", task(date(2024, time.June, 11), TaskStatusPending), false, false, false},
		{"nil", nil, false, false, false},
	}
	for _, tc := range cases {
		if got := IsOverdue(tc.task, today); got != tc.overdue {
			t.Errorf("%s: IsOverdue expected %v, got %v", tc.name, tc.overdue, got)
		}
		if got := IsDueOn(tc.task, today); got != tc.dueOn {
			t.Errorf("%s: IsDueOn expected %v, got %v", tc.name, tc.dueOn, got)
		}
		if got := IsDueBy(tc.task, today); got != tc.dueBy {
			t.Errorf("%s: IsDueBy expected %v, got %v", tc.name, tc.dueBy, got)
		}
	}
}

func TestWeekWindowIsInclusive(t *testing.T) {
	today := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	start, end := WeekWindow(today)
	if !start.Equal(date(2024, time.June, 10)) || !end.Equal(date(2024, time.June, 17)) {
		t.Fatalf("WeekWindow: got %v..%v", start, end)
	}
	edge := &CaseTask{DueDate: end, Status: TaskStatusPending}
	if !IsDueBetween(edge, start, end) {
		t.Fatalf("IsDueBetween: end bound should be inclusive")
	}
	past := &CaseTask{DueDate: date(2024, time.June, 18)}
	if IsDueBetween(past, start, end) {
		t.Fatalf("IsDueBetween: day after window should be excluded")
	}
}
