package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"portfolio-growth-api/internal/config"
	"portfolio-growth-api/internal/models"
	"portfolio-growth-api/internal/services"

	"github.com/gofiber/fiber/v2"
)

func newTestApp() *fiber.App {
	cfg := &config.Config{RateWindowYears: 5, MaxConcurrentFetches: 4}
	// nil cache keeps tests off Firestore
	projectionService := services.NewProjectionService(cfg, nil)
	rateService := services.NewRateService(cfg, nil)
	handler := NewProjectionHandler(projectionService, rateService)
	healthHandler := NewHealthHandler()

	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/health", healthHandler.Health)
	v1 := app.Group("/v1")
	v1.Post("/projection", handler.GetProjection)
	v1.Get("/rates", handler.GetRates)
	v1.Get("/rates/:symbol", handler.GetRate)
	v1.Post("/admin/refresh", handler.ResetCache)
	return app
}

func postProjection(t *testing.T, app *fiber.App, body any) (int, []byte) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", "/v1/projection", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func TestGetProjection_OK(t *testing.T) {
	app := newTestApp()

	status, body := postProjection(t, app, models.ProjectionRequest{
		InitialInvestment:   100000,
		AnnualReturnRate:    0.10,
		MonthlyContribution: 300,
		TimePeriodYears:     30,
	})

	if status != 200 {
		t.Fatalf("status = %d, body = %s", status, body)
	}

	var resp models.ProjectionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if len(resp.Scenarios) != 2 {
		t.Fatalf("got %d scenarios, want 2", len(resp.Scenarios))
	}
	if len(resp.ChartData.Years) != 31 {
		t.Errorf("chart has %d years, want 31", len(resp.ChartData.Years))
	}
	if resp.Summary.TotalContributions != 108000 {
		t.Errorf("total contributions = %v, want 108000", resp.Summary.TotalContributions)
	}
	if resp.Parameters.InitialInvestment != 100000 {
		t.Errorf("parameters not echoed: %+v", resp.Parameters)
	}
}

func TestGetProjection_ValidationErrors(t *testing.T) {
	app := newTestApp()

	cases := []struct {
		name string
		req  models.ProjectionRequest
	}{
		{"missing years", models.ProjectionRequest{InitialInvestment: 1000, AnnualReturnRate: 0.05}},
		{"negative initial investment", models.ProjectionRequest{InitialInvestment: -1, AnnualReturnRate: 0.05, TimePeriodYears: 10}},
		{"negative contribution", models.ProjectionRequest{InitialInvestment: 1000, AnnualReturnRate: 0.05, MonthlyContribution: -5, TimePeriodYears: 10}},
		{"years over limit", models.ProjectionRequest{InitialInvestment: 1000, AnnualReturnRate: 0.05, TimePeriodYears: 200}},
		{"unknown compounding", models.ProjectionRequest{InitialInvestment: 1000, AnnualReturnRate: 0.05, TimePeriodYears: 10, Compounding: "weekly"}},
		{"unknown timing", models.ProjectionRequest{InitialInvestment: 1000, AnnualReturnRate: 0.05, TimePeriodYears: 10, ContributionTiming: "mid_year"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := postProjection(t, app, tc.req)
			if status != 400 {
				t.Errorf("status = %d, want 400, body = %s", status, body)
			}
			var errResp models.ErrorResponse
			if err := json.Unmarshal(body, &errResp); err != nil {
				t.Fatalf("unmarshal error response: %v", err)
			}
			if errResp.Code != 400 {
				t.Errorf("error code = %d, want 400", errResp.Code)
			}
		})
	}
}

func TestGetProjection_BadBody(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/v1/projection", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetRates_MissingSymbols(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/rates", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestResetCache(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/admin/refresh", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
