package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Rsplitstone/compcase-backend/internal/data/repos/testutil"
	"github.com/Rsplitstone/compcase-backend/internal/domain"
)

func taskTitles(rows []*domain.CaseTask) map[string]bool {
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[r.Title] = true
	}
	return out
}

func TestTaskServiceCreateRequiresCase(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2024, time.June, 10), nil)
	dbc := testutil.Ctx()

	_, err := env.tasks.Create(dbc, NewTaskInput{
		CaseID:   999,
		Title:    "orphan",
		TaskType: domain.TaskTypeCorrespondence,
		Priority: domain.TaskPriorityLow,
		DueDate:  testutil.Date(2024, time.June, 12),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Create: expected ErrValidation, got %v", err)
	}

	c := testutil.SeedCase(t, env.conn, "WC-T1", testutil.Date(2024, time.May, 1))
	task, err := env.tasks.Create(dbc, NewTaskInput{
		CaseID:      c.ID,
		Title:       "call claimant",
		Description: "follow up",
		TaskType:    domain.TaskTypeCorrespondence,
		Priority:    domain.TaskPriorityLow,
		DueDate:     testutil.Date(2024, time.June, 12),
		AssignedTo:  "alex",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != domain.TaskStatusPending || task.CompletedAt != nil {
		t.Fatalf("Create: expected fresh PENDING task, got %+v", task)
	}
}

func TestTaskServiceCreateStandardTasks(t *testing.T) {
	today := testutil.Date(2024, time.June, 10)
	env := newTestEnv(t, today.Add(9*time.Hour), nil)
	dbc := testutil.Ctx()
	c := testutil.SeedCase(t, env.conn, "WC-S", today.AddDate(0, -1, 0))

	created, err := env.tasks.CreateStandardTasksForCase(dbc, c.ID)
	if err != nil {
		t.Fatalf("CreateStandardTasksForCase: %v", err)
	}
	if len(created) != 5 {
		t.Fatalf("CreateStandardTasksForCase: want 5 got %d", len(created))
	}
	wantOffsets := []int{1, 3, 5, 2, 30}
	wantTitles := []string{
		"Initial Case Review",
		"Medical Records Review",
		"Benefit Calculation",
		"Initial Correspondence",
		"Statute of Limitations Check",
	}
	for i, task := range created {
		if task.Title != wantTitles[i] {
			t.Errorf("task %d: title want %q got %q", i, wantTitles[i], task.Title)
		}
		if want := today.AddDate(0, 0, wantOffsets[i]); !task.DueDate.Equal(want) {
			t.Errorf("task %d: due want %s got %s", i, want.Format(domain.DateLayout), task.DueDate.Format(domain.DateLayout))
		}
		if task.Status != domain.TaskStatusPending {
			t.Errorf("task %d: status want PENDING got %s", i, task.Status)
		}
	}
	if created[0].Priority != domain.TaskPriorityHigh || created[4].Priority != domain.TaskPriorityHigh {
		t.Errorf("review and statute tasks should be HIGH priority")
	}

	if _, err := env.tasks.CreateStandardTasksForCase(dbc, c.ID+1); !errors.Is(err, ErrValidation) {
		t.Fatalf("CreateStandardTasksForCase missing case: expected ErrValidation, got %v", err)
	}
}

func TestTaskServiceDueDateAsymmetry(t *testing.T) {
	today := testutil.Date(2024, time.June, 10)
	env := newTestEnv(t, today, nil)
	dbc := testutil.Ctx()
	c := testutil.SeedCase(t, env.conn, "WC-A", today)

	testutil.SeedTask(t, env.conn, c.ID, "pending-today", today, domain.TaskStatusPending)
	testutil.SeedTask(t, env.conn, c.ID, "inprogress-today", today, domain.TaskStatusInProgress)

	dueToday, err := env.tasks.ListDueToday(dbc)
	if err != nil {
		t.Fatalf("ListDueToday: %v", err)
	}
	got := taskTitles(dueToday)
	if !got["pending-today"] || !got["inprogress-today"] {
		t.Fatalf("ListDueToday: expected both tasks, got %v", got)
	}

	dueBy, err := env.tasks.ListDueBy(dbc, today)
	if err != nil {
		t.Fatalf("ListDueBy: %v", err)
	}
	got = taskTitles(dueBy)
	if !got["pending-today"] || got["inprogress-today"] {
		t.Fatalf("ListDueBy: expected only the pending task, got %v", got)
	}
}

func TestTaskServiceMarkOverdueIsIdempotent(t *testing.T) {
	today := testutil.Date(2024, time.June, 10)
	env := newTestEnv(t, today, nil)
	dbc := testutil.Ctx()
	c := testutil.SeedCase(t, env.conn, "WC-O", today)

	past := today.AddDate(0, 0, -3)
	pending := testutil.SeedTask(t, env.conn, c.ID, "pending-past", past, domain.TaskStatusPending)
	inProgress := testutil.SeedTask(t, env.conn, c.ID, "inprogress-past", past, domain.TaskStatusInProgress)
	done := testutil.SeedTask(t, env.conn, c.ID, "completed-past", past, domain.TaskStatusCompleted)
	cancelled := testutil.SeedTask(t, env.conn, c.ID, "cancelled-past", past, domain.TaskStatusCancelled)
	testutil.SeedTask(t, env.conn, c.ID, "pending-today", today, domain.TaskStatusPending)

	marked, err := env.tasks.MarkOverdueTasks(dbc)
	if err != nil {
		t.Fatalf("MarkOverdueTasks: %v", err)
	}
	if marked != 2 {
		t.Fatalf("MarkOverdueTasks: want 2 got %d", marked)
	}
	again, err := env.tasks.MarkOverdueTasks(dbc)
	if err != nil {
		t.Fatalf("MarkOverdueTasks second run: %v", err)
	}
	if again != 0 {
		t.Fatalf("MarkOverdueTasks second run: want 0 got %d", again)
	}
	if n := env.events.count(domain.EventTaskOverdueMarked); n != 1 {
		t.Fatalf("overdue events: want 1 got %d", n)
	}

	for _, tc := range []struct {
		id   uint
		want domain.TaskStatus
	}{
		{pending.ID, domain.TaskStatusOverdue},
		{inProgress.ID, domain.TaskStatusOverdue},
		{done.ID, domain.TaskStatusCompleted},
		{cancelled.ID, domain.TaskStatusCancelled},
	} {
		got, err := env.tasks.GetByID(dbc, tc.id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Status != tc.want {
			t.Errorf("task %d: want %s got %s", tc.id, tc.want, got.Status)
		}
	}
}

func TestTaskServiceCompletionStamping(t *testing.T) {
	now := time.Date(2024, time.June, 10, 14, 30, 0, 0, time.UTC)
	env := newTestEnv(t, now, nil)
	dbc := testutil.Ctx()
	c := testutil.SeedCase(t, env.conn, "WC-C", now)

	viaSave := testutil.SeedTask(t, env.conn, c.ID, "generic", now, domain.TaskStatusPending)
	viaSave.Status = domain.TaskStatusCompleted
	saved, err := env.tasks.Save(dbc, viaSave)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.CompletedAt != nil {
		t.Fatalf("Save: generic save must not stamp completed_at")
	}

	viaStatus := testutil.SeedTask(t, env.conn, c.ID, "status", now, domain.TaskStatusPending)
	got, err := env.tasks.UpdateStatus(dbc, viaStatus.ID, domain.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
		t.Fatalf("UpdateStatus: expected completed_at %s, got %v", now, got.CompletedAt)
	}

	viaComplete := testutil.SeedTask(t, env.conn, c.ID, "complete", now, domain.TaskStatusInProgress)
	got, err = env.tasks.CompleteTask(dbc, viaComplete.ID, "filed with board")
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if got.Status != domain.TaskStatusCompleted || got.CompletedAt == nil {
		t.Fatalf("CompleteTask: unexpected %+v", got)
	}
	if got.Notes != "Completed: filed with board" {
		t.Fatalf("CompleteTask: notes want %q got %q", "Completed: filed with board", got.Notes)
	}
	if n := env.events.count(domain.EventTaskCompleted); n != 2 {
		t.Fatalf("completed events: want 2 got %d", n)
	}

	if _, err := env.tasks.CompleteTask(dbc, 9999, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CompleteTask missing: expected ErrNotFound, got %v", err)
	}
}

func TestTaskServiceAddNotesAppends(t *testing.T) {
	now := time.Date(2024, time.June, 10, 8, 5, 9, 0, time.UTC)
	env := newTestEnv(t, now, nil)
	dbc := testutil.Ctx()
	c := testutil.SeedCase(t, env.conn, "WC-N", now)
	task := testutil.SeedTask(t, env.conn, c.ID, "notes", now, domain.TaskStatusPending)

	if _, err := env.tasks.AddNotes(dbc, task.ID, "first"); err != nil {
		t.Fatalf("AddNotes: %v", err)
	}
	got, err := env.tasks.AddNotes(dbc, task.ID, "second")
	if err != nil {
		t.Fatalf("AddNotes: %v", err)
	}
	want := "2024-06-10T08:05:09: first\n\n2024-06-10T08:05:09: second"
	if got.Notes != want {
		t.Fatalf("AddNotes: want %q got %q", want, got.Notes)
	}

	reloaded, err := env.tasks.GetByID(dbc, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if strings.Count(reloaded.Notes, "\n\n") != 1 {
		t.Fatalf("AddNotes: expected persisted two-entry log, got %q", reloaded.Notes)
	}
}

func TestTaskServiceSingleFieldMutators(t *testing.T) {
	today := testutil.Date(2024, time.June, 10)
	env := newTestEnv(t, today, nil)
	dbc := testutil.Ctx()
	c := testutil.SeedCase(t, env.conn, "WC-M", today)
	task := testutil.SeedTask(t, env.conn, c.ID, "mutate", today, domain.TaskStatusPending)

	if _, err := env.tasks.AssignTask(dbc, task.ID, "robin"); err != nil {
		t.Fatalf("AssignTask: %v", err)
	}
	if _, err := env.tasks.UpdatePriority(dbc, task.ID, domain.TaskPriorityUrgent); err != nil {
		t.Fatalf("UpdatePriority: %v", err)
	}
	newDue := today.AddDate(0, 0, 4)
	got, err := env.tasks.UpdateDueDate(dbc, task.ID, newDue)
	if err != nil {
		t.Fatalf("UpdateDueDate: %v", err)
	}
	if got.AssignedTo != "robin" || got.Priority != domain.TaskPriorityUrgent || !got.DueDate.Equal(newDue) {
		t.Fatalf("mutators: unexpected %+v", got)
	}

	if _, err := env.tasks.AssignTask(dbc, 4242, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("AssignTask missing: expected ErrNotFound, got %v", err)
	}
	if _, err := env.tasks.UpdatePriority(dbc, 4242, domain.TaskPriorityLow); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdatePriority missing: expected ErrNotFound, got %v", err)
	}
	if _, err := env.tasks.UpdateDueDate(dbc, 4242, newDue); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateDueDate missing: expected ErrNotFound, got %v", err)
	}
}

func TestTaskAnalyticsGlobalAndUserAgree(t *testing.T) {
	today := testutil.Date(2024, time.June, 10)
	env := newTestEnv(t, today, nil)
	dbc := testutil.Ctx()
	c := testutil.SeedCase(t, env.conn, "WC-AN", today)

	seed := []struct {
		title  string
		due    time.Time
		status domain.TaskStatus
	}{
		{"overdue-pending", today.AddDate(0, 0, -2), domain.TaskStatusPending},
		{"overdue-done", today.AddDate(0, 0, -2), domain.TaskStatusCompleted},
		{"today-inprogress", today, domain.TaskStatusInProgress},
		{"week-edge", today.AddDate(0, 0, 7), domain.TaskStatusPending},
		{"outside-week", today.AddDate(0, 0, 8), domain.TaskStatusPending},
	}
	for _, s := range seed {
		task := testutil.SeedTask(t, env.conn, c.ID, s.title, s.due, s.status)
		if _, err := env.tasks.AssignTask(dbc, task.ID, "pat"); err != nil {
			t.Fatalf("AssignTask: %v", err)
		}
	}

	global, err := env.tasks.TaskAnalytics(dbc)
	if err != nil {
		t.Fatalf("TaskAnalytics: %v", err)
	}
	user, err := env.tasks.UserTaskAnalytics(dbc, "pat")
	if err != nil {
		t.Fatalf("UserTaskAnalytics: %v", err)
	}
	want := TaskAnalytics{
		TotalTasks:      5,
		PendingTasks:    3,
		InProgressTasks: 1,
		CompletedTasks:  1,
		OverdueTasks:    1,
		DueToday:        1,
		DueThisWeek:     2,
	}
	if *global != want {
		t.Errorf("TaskAnalytics: want %+v got %+v", want, *global)
	}
	if *user != want {
		t.Errorf("UserTaskAnalytics: want %+v got %+v", want, *user)
	}

	n, err := env.tasks.CountByCaseAndStatus(dbc, c.ID, domain.TaskStatusPending)
	if err != nil {
		t.Fatalf("CountByCaseAndStatus: %v", err)
	}
	if n != 3 {
		t.Fatalf("CountByCaseAndStatus: want 3 got %d", n)
	}
}
