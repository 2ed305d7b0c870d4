package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Rsplitstone/compcase-backend/internal/data/repos/testutil"
	"github.com/Rsplitstone/compcase-backend/internal/jobs/sweeper"
)

func testConfig() Config {
	return Config{
		DBDriver:                 "sqlite",
		SummarizerMode:           "mock",
		SummarizerTimeoutSeconds: 5,
		SummaryBatchConcurrency:  2,
		SweepIntervalSeconds:     60,
	}
}

func TestBuildServesRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := Build(testConfig(), testutil.Logger(t), testutil.DB(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("overview: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "compcase_api_requests_total") {
		t.Fatalf("metrics: expected request counter, got %s", rec.Body.String())
	}
}

func TestBuildSweeperRunsAgainstServices(t *testing.T) {
	a, err := Build(testConfig(), testutil.Logger(t), testutil.DB(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	if err := a.Sweeper.RunOnce(context.Background(), sweeper.JobOverdue, sweeper.JobSummaries); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if got := a.Metrics.SweepRuns(sweeper.JobSummaries, "ok"); got != 1 {
		t.Fatalf("SweepRuns: expected 1, got %v", got)
	}
}

func TestBuildRejectsBadBenefitSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	if err := os.WriteFile(path, []byte("td_factor: 0\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg := testConfig()
	cfg.BenefitScheduleFile = path
	if _, err := Build(cfg, testutil.Logger(t), testutil.DB(t)); err == nil {
		t.Fatalf("Build: expected invalid schedule error")
	}
}
