// Package projection computes compound-growth projections for a lump-sum
// investment with optional recurring monthly contributions. The engine is
// pure: same parameters, same series, no shared state.
package projection

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is wrapped by all parameter validation failures.
var ErrInvalidArgument = errors.New("invalid argument")

// Compounding selects the recurrence granularity.
type Compounding string

const (
	CompoundingAnnual  Compounding = "annual"
	CompoundingMonthly Compounding = "monthly"
)

// ContributionTiming selects whether a period's contributions are added
// before or after growth is applied for that period.
type ContributionTiming string

const (
	// ContributionStartOfYear adds contributions first, so new money
	// compounds for the full period.
	ContributionStartOfYear ContributionTiming = "start_of_year"
	// ContributionEndOfYear applies growth first; the period's
	// contributions earn nothing until the next period.
	ContributionEndOfYear ContributionTiming = "end_of_year"
)

// Parameters describes a single projection scenario.
type Parameters struct {
	InitialInvestment   float64
	AnnualReturnRate    float64
	MonthlyContribution float64
	TimePeriodYears     int

	// Compounding defaults to CompoundingAnnual when empty.
	Compounding Compounding
	// ContributionTiming defaults to ContributionStartOfYear when empty.
	ContributionTiming ContributionTiming
}

// Point is one annual checkpoint of a projection.
type Point struct {
	Period int     `json:"period"`
	Value  float64 `json:"value"`
}

// Series holds annual checkpoints, entry 0 being the initial investment.
// Its length is always TimePeriodYears + 1.
type Series []Point

// Final returns the last value of the series, or 0 for an empty series.
func (s Series) Final() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Value
}

// Values returns just the portfolio values, in period order.
func (s Series) Values() []float64 {
	vals := make([]float64, len(s))
	for i, p := range s {
		vals[i] = p.Value
	}
	return vals
}

// Validate checks that the parameters describe a computable scenario.
func (p Parameters) Validate() error {
	if math.IsNaN(p.InitialInvestment) || math.IsInf(p.InitialInvestment, 0) || p.InitialInvestment < 0 {
		return fmt.Errorf("%w: initial investment must be a non-negative number, got %v", ErrInvalidArgument, p.InitialInvestment)
	}
	if math.IsNaN(p.AnnualReturnRate) || math.IsInf(p.AnnualReturnRate, 0) {
		return fmt.Errorf("%w: annual return rate must be finite, got %v", ErrInvalidArgument, p.AnnualReturnRate)
	}
	if math.IsNaN(p.MonthlyContribution) || math.IsInf(p.MonthlyContribution, 0) || p.MonthlyContribution < 0 {
		return fmt.Errorf("%w: monthly contribution must be a non-negative number, got %v", ErrInvalidArgument, p.MonthlyContribution)
	}
	if p.TimePeriodYears < 1 {
		return fmt.Errorf("%w: time period must be at least 1 year, got %d", ErrInvalidArgument, p.TimePeriodYears)
	}
	switch p.Compounding {
	case "", CompoundingAnnual, CompoundingMonthly:
	default:
		return fmt.Errorf("%w: unknown compounding %q", ErrInvalidArgument, p.Compounding)
	}
	switch p.ContributionTiming {
	case "", ContributionStartOfYear, ContributionEndOfYear:
	default:
		return fmt.Errorf("%w: unknown contribution timing %q", ErrInvalidArgument, p.ContributionTiming)
	}
	return nil
}

// Project computes the year-by-year portfolio values for p. The result has
// TimePeriodYears + 1 entries; entry 0 is exactly the initial investment.
// Monthly compounding runs the recurrence at month granularity and records
// annual checkpoints, so both granularities produce the same series shape.
func Project(p Parameters) (Series, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	compounding := p.Compounding
	if compounding == "" {
		compounding = CompoundingAnnual
	}
	timing := p.ContributionTiming
	if timing == "" {
		timing = ContributionStartOfYear
	}

	series := make(Series, 0, p.TimePeriodYears+1)
	value := p.InitialInvestment
	series = append(series, Point{Period: 0, Value: value})

	switch compounding {
	case CompoundingAnnual:
		annualContribution := p.MonthlyContribution * 12
		growth := 1 + p.AnnualReturnRate
		for year := 1; year <= p.TimePeriodYears; year++ {
			if timing == ContributionStartOfYear {
				value += annualContribution
				value *= growth
			} else {
				value *= growth
				value += annualContribution
			}
			series = append(series, Point{Period: year, Value: value})
		}

	case CompoundingMonthly:
		growth := 1 + p.AnnualReturnRate/12
		for year := 1; year <= p.TimePeriodYears; year++ {
			for month := 0; month < 12; month++ {
				if timing == ContributionStartOfYear {
					value += p.MonthlyContribution
					value *= growth
				} else {
					value *= growth
					value += p.MonthlyContribution
				}
			}
			series = append(series, Point{Period: year, Value: value})
		}
	}

	return series, nil
}
