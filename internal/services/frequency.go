package services

import (
	"context"
	"math"
)

// FactorStats holds the frequency comparison for one candidate factor.
type FactorStats struct {
	Factor              Factor
	FlareOccurrences    int
	BaselineOccurrences int
	TotalFlareDays      int
	TotalBaselineDays   int
	FlareFrequency      float64
	BaselineFrequency   float64
	RawCorrelation      float64
}

// AnalyzeFactors computes frequency stats for every candidate factor and
// keeps only the ones passing the occurrence and strength filters.
// contextDay is the day immediately before the window (or nil); it feeds
// cross-midnight lookbacks for the first window day without being counted
// itself. The context is checked between factor iterations so a superseded
// run can stop early; it is never checked mid-statistic.
func AnalyzeFactors(ctx context.Context, days []DayAnalysis, contextDay *DayAnalysis, factors []Factor, cfg EngineConfig) ([]FactorStats, error) {
	totalFlare := countFlareDays(days)
	totalBaseline := len(days) - totalFlare

	kept := make([]FactorStats, 0, len(factors))
	for _, factor := range factors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stats := analyzeFactor(days, contextDay, factor, totalFlare, totalBaseline, cfg)
		if passesFilters(stats, cfg) {
			kept = append(kept, stats)
		}
	}
	return kept, nil
}

func analyzeFactor(days []DayAnalysis, contextDay *DayAnalysis, factor Factor, totalFlare int, totalBaseline int, cfg EngineConfig) FactorStats {
	stats := FactorStats{
		Factor:            factor,
		TotalFlareDays:    totalFlare,
		TotalBaselineDays: totalBaseline,
	}

	for index := range days {
		previous := previousDay(days, index, contextDay)
		if days[index].IsFlare {
			if factorPresentOnFlareDay(days[index], previous, factor, cfg) {
				stats.FlareOccurrences++
			}
		} else if factorPresentOnBaselineDay(days[index], previous, factor, cfg) {
			stats.BaselineOccurrences++
		}
	}

	if totalFlare > 0 {
		stats.FlareFrequency = float64(stats.FlareOccurrences) / float64(totalFlare)
	}
	stats.BaselineFrequency = float64(stats.BaselineOccurrences) / math.Max(float64(totalBaseline), 1)

	// The floor keeps a never-on-baseline factor from dividing by zero. It is
	// a smoothing constant, not an estimator.
	stats.RawCorrelation = (stats.FlareFrequency - stats.BaselineFrequency) /
		math.Max(stats.BaselineFrequency, cfg.BaselineFloor)

	return stats
}

// previousDay returns the snapshot of the immediately preceding calendar day,
// or nil when no record exists for it. days must be sorted by date.
func previousDay(days []DayAnalysis, index int, contextDay *DayAnalysis) *DayAnalysis {
	var candidate *DayAnalysis
	if index == 0 {
		candidate = contextDay
	} else {
		candidate = &days[index-1]
	}
	if candidate == nil {
		return nil
	}
	if sameCalendarDay(candidate.Date.AddDate(0, 0, 1), days[index].Date) {
		return candidate
	}
	return nil
}

func passesFilters(stats FactorStats, cfg EngineConfig) bool {
	if stats.FlareOccurrences < cfg.MinOccurrences {
		return false
	}
	return math.Abs(stats.RawCorrelation) > cfg.SignificanceThreshold
}
