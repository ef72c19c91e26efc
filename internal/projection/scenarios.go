package projection

// RunScenarios projects one series per named contribution amount, holding
// the remaining parameters fixed. The engine itself stays single-scenario;
// this is the comparison pattern callers use (typically "lump sum only" at
// zero against "lump sum + savings" at some contribution).
func RunScenarios(base Parameters, contributions map[string]float64) (map[string]Series, error) {
	results := make(map[string]Series, len(contributions))
	for name, monthly := range contributions {
		p := base
		p.MonthlyContribution = monthly
		series, err := Project(p)
		if err != nil {
			return nil, err
		}
		results[name] = series
	}
	return results, nil
}

// TotalContributions returns the nominal sum of monthly contributions over
// the projection window, excluding the initial investment.
func TotalContributions(monthlyContribution float64, timePeriodYears int) float64 {
	return monthlyContribution * 12 * float64(timePeriodYears)
}
