package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shopspring/decimal"

	"github.com/Rsplitstone/compcase-backend/internal/platform/apierr"
	"github.com/Rsplitstone/compcase-backend/internal/platform/dbctx"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
	"github.com/Rsplitstone/compcase-backend/internal/services"
)

type Deps struct {
	Log       *logger.Logger
	Cases     services.CaseService
	Tasks     services.TaskService
	Reports   services.ReportService
	Analytics services.AnalyticsService
}

// NewServer exposes the case, task and report rules as MCP tools.
func NewServer(version string, deps Deps) *server.MCPServer {
	s := server.NewMCPServer("compcase", version)
	h := &handlers{deps: deps, log: deps.Log.With("component", "MCPServer")}

	// Cases
	s.AddTool(mcp.NewTool("get_case",
		mcp.WithDescription("Get a workers' comp case by id."),
		mcp.WithNumber("case_id", mcp.Description("Case id"), mcp.Required()),
	), h.getCase)

	s.AddTool(mcp.NewTool("statute_check",
		mcp.WithDescription("Days since injury and whether the case is approaching the statute of limitations."),
		mcp.WithNumber("case_id", mcp.Description("Case id"), mcp.Required()),
	), h.statuteCheck)

	s.AddTool(mcp.NewTool("calculate_td_rate",
		mcp.WithDescription("Weekly temporary disability rate for a weekly wage."),
		mcp.WithString("weekly_wage", mcp.Description("Average weekly wage, decimal string or number")),
	), h.calculateTDRate)

	s.AddTool(mcp.NewTool("calculate_pd_indemnity",
		mcp.WithDescription("Permanent disability indemnity for a rating and weekly wage."),
		mcp.WithString("disability_rating", mcp.Description("Disability rating percentage")),
		mcp.WithString("weekly_wage", mcp.Description("Average weekly wage")),
	), h.calculatePDIndemnity)

	// Tasks
	s.AddTool(mcp.NewTool("list_overdue_tasks",
		mcp.WithDescription("List open tasks whose due date has passed."),
	), h.listOverdueTasks)

	s.AddTool(mcp.NewTool("mark_overdue_tasks",
		mcp.WithDescription("Move every overdue pending or in-progress task to OVERDUE."),
	), h.markOverdueTasks)

	s.AddTool(mcp.NewTool("create_standard_tasks",
		mcp.WithDescription("Create the five standard intake tasks for a case."),
		mcp.WithNumber("case_id", mcp.Description("Case id"), mcp.Required()),
	), h.createStandardTasks)

	// Reports
	s.AddTool(mcp.NewTool("generate_report_summary",
		mcp.WithDescription("Run the summarizer on an AME report and store the result."),
		mcp.WithNumber("report_id", mcp.Description("Report id"), mcp.Required()),
	), h.generateReportSummary)

	s.AddTool(mcp.NewTool("analytics_overview",
		mcp.WithDescription("Case dashboard plus task and report analytics."),
	), h.analyticsOverview)

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

type handlers struct {
	deps Deps
	log  *logger.Logger
}

func (h *handlers) getCase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireID(req, "case_id")
	if res != nil {
		return res, nil
	}
	c, err := h.deps.Cases.GetByID(dbctx.Context{Ctx: ctx}, id)
	return h.result("get_case", c, err)
}

func (h *handlers) statuteCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireID(req, "case_id")
	if res != nil {
		return res, nil
	}
	out, err := h.deps.Cases.StatuteCheck(dbctx.Context{Ctx: ctx}, id)
	return h.result("statute_check", out, err)
}

func (h *handlers) calculateTDRate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wage, err := decimalArg(req, "weekly_wage")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rate := h.deps.Cases.CalculateTemporaryDisabilityRate(wage)
	return h.result("calculate_td_rate", map[string]any{"weekly_wage": wage, "td_rate": rate}, nil)
}

func (h *handlers) calculatePDIndemnity(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rating, err := decimalArg(req, "disability_rating")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	wage, err := decimalArg(req, "weekly_wage")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	amount := h.deps.Cases.CalculatePermanentDisabilityIndemnity(rating, wage)
	return h.result("calculate_pd_indemnity", map[string]any{
		"disability_rating": rating,
		"weekly_wage":       wage,
		"pd_indemnity":      amount,
	}, nil)
}

func (h *handlers) listOverdueTasks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := h.deps.Tasks.ListOverdue(dbctx.Context{Ctx: ctx})
	if err != nil {
		return h.result("list_overdue_tasks", nil, err)
	}
	return h.result("list_overdue_tasks", map[string]any{"tasks": tasks}, nil)
}

func (h *handlers) markOverdueTasks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := h.deps.Tasks.MarkOverdueTasks(dbctx.Context{Ctx: ctx})
	if err != nil {
		return h.result("mark_overdue_tasks", nil, err)
	}
	return h.result("mark_overdue_tasks", map[string]any{"marked": n}, nil)
}

func (h *handlers) createStandardTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireID(req, "case_id")
	if res != nil {
		return res, nil
	}
	tasks, err := h.deps.Tasks.CreateStandardTasksForCase(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return h.result("create_standard_tasks", nil, err)
	}
	return h.result("create_standard_tasks", map[string]any{"tasks": tasks}, nil)
}

func (h *handlers) generateReportSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, res := requireID(req, "report_id")
	if res != nil {
		return res, nil
	}
	report, err := h.deps.Reports.GenerateAISummary(dbctx.Context{Ctx: ctx}, id)
	return h.result("generate_report_summary", report, err)
}

func (h *handlers) analyticsOverview(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := h.deps.Analytics.Overview(dbctx.Context{Ctx: ctx})
	return h.result("analytics_overview", out, err)
}

// result renders v as JSON text. Domain failures become tool errors carrying
// the same machine code the HTTP surface uses.
func (h *handlers) result(tool string, v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		status, code := apierr.From(err, "internal_error")
		if status >= 500 {
			h.log.Warn("Tool call failed", "tool", tool, "code", code, "error", err)
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", code, err)), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func requireID(req mcp.CallToolRequest, key string) (uint, *mcp.CallToolResult) {
	id := mcp.ParseInt64(req, key, 0)
	if id <= 0 {
		return 0, mcp.NewToolResultError(fmt.Sprintf("%s must be a positive integer", key))
	}
	return uint(id), nil
}

var errBadDecimal = errors.New("must be a decimal number")

// decimalArg accepts numbers or numeric strings. A missing argument is a
// null decimal, which the benefit rules treat as zero.
func decimalArg(req mcp.CallToolRequest, key string) (decimal.NullDecimal, error) {
	raw := mcp.ParseArgument(req, key, nil)
	switch v := raw.(type) {
	case nil:
		return decimal.NullDecimal{}, nil
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v)), nil
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(v))), nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.NullDecimal{}, fmt.Errorf("%s %w", key, errBadDecimal)
		}
		return decimal.NewNullDecimal(d), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.NullDecimal{}, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.NullDecimal{}, fmt.Errorf("%s %w", key, errBadDecimal)
		}
		return decimal.NewNullDecimal(d), nil
	default:
		return decimal.NullDecimal{}, fmt.Errorf("%s %w: got %s", key, errBadDecimal, strconv.Quote(fmt.Sprint(v)))
	}
}
