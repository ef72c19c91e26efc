package services

import (
	"context"
	"crypto/md5"
	"fmt"
	"time"

	"portfolio-growth-api/internal/config"
	"portfolio-growth-api/internal/models"
	"portfolio-growth-api/internal/projection"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Scenario names, as shown to clients.
const (
	ScenarioLumpSumOnly    = "Lump Sum Only"
	ScenarioLumpSumSavings = "Lump Sum + Regular Savings"
)

// ProjectionService coordinates the projection pipeline: cache lookup,
// scenario runs through the engine, summary reduction, cache store.
type ProjectionService struct {
	config *config.Config
	cache  *CacheService
}

func NewProjectionService(cfg *config.Config, cache *CacheService) *ProjectionService {
	return &ProjectionService{
		config: cfg,
		cache:  cache,
	}
}

// GenerateProjection runs the lump-sum-only and lump-sum-plus-savings
// scenarios for req and derives the comparison summary.
func (s *ProjectionService) GenerateProjection(ctx context.Context, req models.ProjectionRequest) (*models.ProjectionResponse, error) {
	params := toParameters(req)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	cacheKey := s.generateCacheKey(req)

	if s.cache != nil {
		if cached, found := s.cache.GetProjection(ctx, cacheKey); found {
			return cached, nil
		}
	}

	series, err := projection.RunScenarios(params, map[string]float64{
		ScenarioLumpSumOnly:    0,
		ScenarioLumpSumSavings: req.MonthlyContribution,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to project scenarios: %w", err)
	}

	lumpOnly := series[ScenarioLumpSumOnly]
	combined := series[ScenarioLumpSumSavings]

	response := &models.ProjectionResponse{
		Parameters: req,
		Scenarios: []models.ScenarioSeries{
			{
				Name:                ScenarioLumpSumOnly,
				MonthlyContribution: 0,
				Points:              lumpOnly,
				FinalValue:          lumpOnly.Final(),
			},
			{
				Name:                ScenarioLumpSumSavings,
				MonthlyContribution: req.MonthlyContribution,
				Points:              combined,
				FinalValue:          combined.Final(),
			},
		},
		ChartData:   buildChartData(lumpOnly, combined),
		Summary:     buildSummary(req, lumpOnly, combined),
		GeneratedAt: time.Now(),
		CacheHit:    false,
	}

	if s.cache != nil {
		if err := s.cache.SetProjection(ctx, cacheKey, response); err != nil {
			log.Warn().Err(err).Msg("failed to cache projection")
		}
	}

	return response, nil
}

// ResetCache drops cached projections and rate presets.
func (s *ProjectionService) ResetCache(ctx context.Context) error {
	if s.cache != nil {
		s.cache.Reset()
	}
	return nil
}

func toParameters(req models.ProjectionRequest) projection.Parameters {
	return projection.Parameters{
		InitialInvestment:   req.InitialInvestment,
		AnnualReturnRate:    req.AnnualReturnRate,
		MonthlyContribution: req.MonthlyContribution,
		TimePeriodYears:     req.TimePeriodYears,
		Compounding:         projection.Compounding(req.Compounding),
		ContributionTiming:  projection.ContributionTiming(req.ContributionTiming),
	}
}

func (s *ProjectionService) generateCacheKey(req models.ProjectionRequest) string {
	key := fmt.Sprintf("%v|%v|%v|%d|%s|%s",
		req.InitialInvestment,
		req.AnnualReturnRate,
		req.MonthlyContribution,
		req.TimePeriodYears,
		req.Compounding,
		req.ContributionTiming,
	)
	return fmt.Sprintf("%x", md5.Sum([]byte(key)))
}

func buildChartData(lumpOnly, combined projection.Series) models.ChartData {
	years := make([]int, len(lumpOnly))
	for i, pt := range lumpOnly {
		years[i] = pt.Period
	}
	return models.ChartData{
		Years:          years,
		LumpSumValues:  lumpOnly.Values(),
		CombinedValues: combined.Values(),
	}
}

// buildSummary reduces the two final values to the comparison metrics.
// Monetary amounts are rounded to cents through decimal arithmetic.
func buildSummary(req models.ProjectionRequest, lumpOnly, combined projection.Series) models.Summary {
	finalLump := decimal.NewFromFloat(lumpOnly.Final())
	finalCombined := decimal.NewFromFloat(combined.Final())
	difference := finalCombined.Sub(finalLump)

	totalContributions := decimal.NewFromFloat(req.MonthlyContribution).
		Mul(decimal.NewFromInt(12)).
		Mul(decimal.NewFromInt(int64(req.TimePeriodYears)))
	additionalReturn := difference.Sub(totalContributions)

	roi := decimal.Zero
	if totalContributions.IsPositive() {
		roi = additionalReturn.Div(totalContributions).Mul(decimal.NewFromInt(100))
	}

	return models.Summary{
		FinalLumpSum:       finalLump.Round(2).InexactFloat64(),
		FinalCombined:      finalCombined.Round(2).InexactFloat64(),
		Difference:         difference.Round(2).InexactFloat64(),
		TotalContributions: totalContributions.Round(2).InexactFloat64(),
		AdditionalReturn:   additionalReturn.Round(2).InexactFloat64(),
		ROIOnContributions: roi.Round(1).InexactFloat64(),
	}
}
