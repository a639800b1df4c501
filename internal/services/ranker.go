package services

import (
	"fmt"
	"math"
	"sort"
)

// CorrelationResult is one ranked, confidence-graded finding. Results are
// produced fresh by each analysis run and never mutated afterwards.
type CorrelationResult struct {
	Factor              Factor  `json:"factor"`
	Strength            float64 `json:"strength"`
	IsProtective        bool    `json:"is_protective"`
	Confidence          string  `json:"confidence"`
	FlareOccurrences    int     `json:"flare_occurrences"`
	BaselineOccurrences int     `json:"baseline_occurrences"`
	Occurrences         int     `json:"occurrences"`
	PValue              float64 `json:"p_value"`
	Window              string  `json:"window"`
	Description         string  `json:"description"`
}

// RankFactors converts filtered frequency stats into ordered results:
// strength descending, then combined occurrences descending, then factor key
// ascending so the ordering is total and test-stable.
func RankFactors(stats []FactorStats, cfg EngineConfig) []CorrelationResult {
	results := make([]CorrelationResult, 0, len(stats))
	for _, factorStats := range stats {
		results = append(results, buildResult(factorStats, cfg))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Strength != results[j].Strength {
			return results[i].Strength > results[j].Strength
		}
		if results[i].Occurrences != results[j].Occurrences {
			return results[i].Occurrences > results[j].Occurrences
		}
		return results[i].Factor.Key() < results[j].Factor.Key()
	})
	return results
}

func buildResult(stats FactorStats, cfg EngineConfig) CorrelationResult {
	// Raw correlation can exceed +-1 after the baseline floor; strength is
	// clamped to 1.0 and the sign moves into the protective flag.
	strength := math.Min(math.Abs(stats.RawCorrelation), 1.0)
	isProtective := stats.RawCorrelation < 0

	result := CorrelationResult{
		Factor:              stats.Factor,
		Strength:            strength,
		IsProtective:        isProtective,
		Confidence:          ConfidenceGrade(stats.FlareOccurrences, stats.BaselineOccurrences),
		FlareOccurrences:    stats.FlareOccurrences,
		BaselineOccurrences: stats.BaselineOccurrences,
		Occurrences:         stats.FlareOccurrences + stats.BaselineOccurrences,
		PValue:              ChiSquarePValue(ChiSquareStatistic(stats)),
		Window:              windowLabel(stats.Factor, cfg),
	}
	result.Description = describeResult(result)
	return result
}

func windowLabel(factor Factor, cfg EngineConfig) string {
	switch factor.Kind {
	case FactorKindFood:
		return fmt.Sprintf("%dh before symptoms", int(cfg.FoodLookback.Hours()))
	case FactorKindExercise:
		return fmt.Sprintf("%dh before symptoms", int(cfg.ExerciseLookback.Hours()))
	case FactorKindActivity:
		return fmt.Sprintf("%dh before symptoms", int(cfg.ActivityLookback.Hours()))
	case FactorKindDerived:
		if factor.Value == DerivedPoorSleep || factor.Value == DerivedExcessiveSleep {
			return "prior night"
		}
		return fmt.Sprintf("%dh before symptoms", int(cfg.ExerciseLookback.Hours()))
	}
	return ""
}

func describeResult(result CorrelationResult) string {
	percent := int(math.Round(result.Strength * 100))
	if result.IsProtective {
		return fmt.Sprintf("%s appears on better days (%d%%)", result.Factor.Label, percent)
	}
	return fmt.Sprintf("%s appears before flares (%d%%)", result.Factor.Label, percent)
}
