package domain

import "testing"

func TestParseEnumsNormalize(t *testing.T) {
	if s, err := ParseCaseStatus("pending review"); err != nil || s != CaseStatusPendingReview {
		t.Fatalf("ParseCaseStatus: got %q, %v", s, err)
	}
	if s, err := ParseTaskStatus("in-progress"); err != nil || s != TaskStatusInProgress {
		t.Fatalf("ParseTaskStatus: got %q, %v", s, err)
	}
	if p, err := ParseTaskPriority(" urgent "); err != nil || p != TaskPriorityUrgent {
		t.Fatalf("ParseTaskPriority: got %q, %v", p, err)
	}
	if tt, err := ParseTaskType("ame_scheduling"); err != nil || tt != TaskTypeAMEScheduling {
		t.Fatalf("ParseTaskType: got %q, %v", tt, err)
	}
	if _, err := ParseCaseStatus("REOPENED"); err == nil {
		t.Fatalf("ParseCaseStatus: expected error")
	}
	if _, err := ParseTaskPriority(""); err == nil {
		t.Fatalf("ParseTaskPriority: expected error for blank")
	}
}

func TestPriorityRankOrder(t *testing.T) {
	order := []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Fatalf("Rank: %s should outrank %s", order[i], order[i-1])
		}
	}
	if TaskPriority("BOGUS").Valid() {
		t.Fatalf("Valid: unknown priority accepted")
	}
}

func TestStatusClasses(t *testing.T) {
	for _, s := range SweepableTaskStatuses() {
		if !s.Sweepable() || s.Closed() {
			t.Errorf("%s: sweepable status misclassified", s)
		}
	}
	for _, s := range ClosedTaskStatuses() {
		if !s.Closed() || s.Sweepable() {
			t.Errorf("%s: closed status misclassified", s)
		}
	}
	if TaskStatusOverdue.Sweepable() || TaskStatusOverdue.Closed() {
		t.Errorf("OVERDUE should be neither sweepable nor closed")
	}
}

func TestReportNeedsSummary(t *testing.T) {
	r := &AMEReport{}
	if !r.NeedsSummary() {
		t.Fatalf("NeedsSummary: nil summary should need one")
	}
	s := ""
	r.AISummary = &s
	if r.NeedsSummary() {
		t.Fatalf("NeedsSummary: stored summary should not need one")
	}
}
