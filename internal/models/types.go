package models

import (
	"time"

	"portfolio-growth-api/internal/projection"
)

// ProjectionRequest represents the incoming projection request. The rate is
// a decimal fraction (0.10 means 10%).
type ProjectionRequest struct {
	InitialInvestment   float64 `json:"initialInvestment" validate:"gte=0"`
	AnnualReturnRate    float64 `json:"annualReturnRate" validate:"gte=-1,lte=10"`
	MonthlyContribution float64 `json:"monthlyContribution" validate:"gte=0"`
	TimePeriodYears     int     `json:"timePeriodYears" validate:"required,gte=1,lte=100"`

	Compounding        string `json:"compounding,omitempty" validate:"omitempty,oneof=annual monthly"`
	ContributionTiming string `json:"contributionTiming,omitempty" validate:"omitempty,oneof=start_of_year end_of_year"`
}

// ScenarioSeries is one scenario's projected series.
type ScenarioSeries struct {
	Name                string            `json:"name"`
	MonthlyContribution float64           `json:"monthlyContribution"`
	Points              projection.Series `json:"points"`
	FinalValue          float64           `json:"finalValue"`
}

// ChartData carries the two series as parallel arrays for client-side
// charting.
type ChartData struct {
	Years          []int     `json:"years"`
	LumpSumValues  []float64 `json:"lumpSumValues"`
	CombinedValues []float64 `json:"combinedValues"`
}

// Summary holds the derived comparison metrics between the lump-sum-only
// and lump-sum-plus-savings scenarios, rounded to cents.
type Summary struct {
	FinalLumpSum       float64 `json:"finalLumpSum"`
	FinalCombined      float64 `json:"finalCombined"`
	Difference         float64 `json:"difference"`
	TotalContributions float64 `json:"totalContributions"`
	AdditionalReturn   float64 `json:"additionalReturn"`
	// ROIOnContributions is a percentage; 0 when there are no contributions.
	ROIOnContributions float64 `json:"roiOnContributions"`
}

// ProjectionResponse represents the projection result. The request
// parameters are echoed back for reproducibility.
type ProjectionResponse struct {
	Parameters  ProjectionRequest `json:"parameters"`
	Scenarios   []ScenarioSeries  `json:"scenarios"`
	ChartData   ChartData         `json:"chartData"`
	Summary     Summary           `json:"summary"`
	GeneratedAt time.Time         `json:"generatedAt"`
	CacheHit    bool              `json:"cacheHit"`
}

// Quote is a current-price snapshot from one market data source.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previousClose"`
	LastUpdated   time.Time `json:"lastUpdated"`
	Source        string    `json:"source"`
}

// RateData is a return-rate preset for a ticker, derived from its trailing
// price history.
type RateData struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	// TrailingAnnualReturn is annualized over WindowYears, as a decimal
	// fraction suitable for ProjectionRequest.AnnualReturnRate.
	TrailingAnnualReturn float64   `json:"trailingAnnualReturn"`
	WindowYears          int       `json:"windowYears"`
	LastUpdated          time.Time `json:"lastUpdated"`
	Source               string    `json:"source"` // "alphavantage" or "yahoo"
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
