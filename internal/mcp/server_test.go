package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Rsplitstone/compcase-backend/internal/clients/summarizer"
	"github.com/Rsplitstone/compcase-backend/internal/data/repos"
	"github.com/Rsplitstone/compcase-backend/internal/data/repos/testutil"
	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/services"
)

var today = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*server.MCPServer, *testutil.Seeder) {
	t.Helper()
	conn := testutil.DB(t)
	log := testutil.Logger(t)
	clock := services.FixedClock(today)

	caseRepo := repos.NewWorkersCompCaseRepo(conn, log)
	taskRepo := repos.NewCaseTaskRepo(conn, log)
	reportRepo := repos.NewAMEReportRepo(conn, log)

	cases := services.NewCaseService(conn, log, caseRepo, services.DefaultBenefitSchedule(), clock)
	tasks := services.NewTaskService(conn, log, taskRepo, caseRepo, nil, clock)
	reports := services.NewReportService(conn, log, reportRepo, caseRepo, summarizer.NewMock(), nil, clock, services.ReportServiceOptions{})

	s := NewServer("test", Deps{
		Log:       log,
		Cases:     cases,
		Tasks:     tasks,
		Reports:   reports,
		Analytics: services.NewAnalyticsService(log, cases, tasks, reports),
	})
	return s, &testutil.Seeder{TB: t, Conn: conn}
}

func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	if tool == nil {
		t.Fatalf("Tool %s not found", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := tool.Handler(context.Background(), req)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	return result.Content[0].(mcp.TextContent).Text
}

func TestToolsRegistered(t *testing.T) {
	s, _ := newTestServer(t)
	for _, name := range []string{
		"get_case", "statute_check", "calculate_td_rate", "calculate_pd_indemnity",
		"list_overdue_tasks", "mark_overdue_tasks", "create_standard_tasks",
		"generate_report_summary", "analytics_overview",
	} {
		if s.GetTool(name) == nil {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestCaseTools(t *testing.T) {
	s, seed := newTestServer(t)
	c := seed.Case("WC-MCP-1", today.AddDate(0, 0, -301))

	res := call(t, s, "statute_check", map[string]any{"case_id": float64(c.ID)})
	if res.IsError {
		t.Fatalf("statute_check: %s", text(t, res))
	}
	var check services.StatuteCheck
	if err := json.Unmarshal([]byte(text(t, res)), &check); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if check.DaysSinceInjury != 301 || !check.ApproachingStatute {
		t.Fatalf("statute_check: got %+v", check)
	}

	res = call(t, s, "get_case", map[string]any{"case_id": float64(9999)})
	if !res.IsError || !strings.HasPrefix(text(t, res), "case_not_found") {
		t.Fatalf("get_case missing: expected case_not_found tool error, got %q", text(t, res))
	}

	res = call(t, s, "get_case", map[string]any{})
	if !res.IsError {
		t.Fatalf("get_case: expected error without case_id")
	}
}

func TestBenefitTools(t *testing.T) {
	s, _ := newTestServer(t)

	res := call(t, s, "calculate_td_rate", map[string]any{"weekly_wage": "900"})
	if res.IsError {
		t.Fatalf("calculate_td_rate: %s", text(t, res))
	}
	if !strings.Contains(text(t, res), `"td_rate":"600.03"`) {
		t.Fatalf("calculate_td_rate: got %s", text(t, res))
	}

	res = call(t, s, "calculate_pd_indemnity", map[string]any{"disability_rating": float64(10), "weekly_wage": float64(1000)})
	if res.IsError {
		t.Fatalf("calculate_pd_indemnity: %s", text(t, res))
	}
	if !strings.Contains(text(t, res), `"pd_indemnity":"20001"`) {
		t.Fatalf("calculate_pd_indemnity: got %s", text(t, res))
	}

	res = call(t, s, "calculate_td_rate", map[string]any{"weekly_wage": "lots"})
	if !res.IsError {
		t.Fatalf("calculate_td_rate: expected error for non-numeric wage")
	}
}

func TestTaskAndReportTools(t *testing.T) {
	s, seed := newTestServer(t)
	c := seed.Case("WC-MCP-2", today.AddDate(0, -1, 0))
	seed.Task(c.ID, "Late", today.AddDate(0, 0, -2), domain.TaskStatusPending)

	res := call(t, s, "create_standard_tasks", map[string]any{"case_id": float64(c.ID)})
	if res.IsError {
		t.Fatalf("create_standard_tasks: %s", text(t, res))
	}
	var created struct {
		Tasks []domain.CaseTask `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(text(t, res)), &created); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(created.Tasks) != 5 {
		t.Fatalf("create_standard_tasks: expected 5, got %d", len(created.Tasks))
	}

	res = call(t, s, "mark_overdue_tasks", nil)
	if text(t, res) != `{"marked":1}` {
		t.Fatalf("mark_overdue_tasks: got %s", text(t, res))
	}

	r := seed.Report(c.ID, "Dr. Tool", "report body")
	res = call(t, s, "generate_report_summary", map[string]any{"report_id": float64(r.ID)})
	if res.IsError {
		t.Fatalf("generate_report_summary: %s", text(t, res))
	}
	if !strings.Contains(text(t, res), "Mock summary") {
		t.Fatalf("generate_report_summary: got %s", text(t, res))
	}

	res = call(t, s, "analytics_overview", nil)
	if res.IsError {
		t.Fatalf("analytics_overview: %s", text(t, res))
	}
}
