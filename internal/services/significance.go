package services

import "math"

const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

const (
	highConfidenceOccurrences   = 10
	mediumConfidenceOccurrences = 5
)

// ConfidenceGrade is the single uniform grading rule: it depends only on the
// combined occurrence count, which makes it monotonically non-decreasing in
// that count. The chi-square p-value below is carried on results as
// supporting data and never consulted for the grade.
func ConfidenceGrade(flareOccurrences int, baselineOccurrences int) string {
	combined := flareOccurrences + baselineOccurrences
	switch {
	case combined >= highConfidenceOccurrences:
		return ConfidenceHigh
	case combined >= mediumConfidenceOccurrences:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func confidenceRank(grade string) int {
	switch grade {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// ChiSquareStatistic computes the 2x2 contingency statistic for
// factor-present/absent x flare/baseline day counts.
func ChiSquareStatistic(stats FactorStats) float64 {
	a := float64(stats.FlareOccurrences)
	b := float64(stats.TotalFlareDays - stats.FlareOccurrences)
	c := float64(stats.BaselineOccurrences)
	d := float64(stats.TotalBaselineDays - stats.BaselineOccurrences)

	total := a + b + c + d
	if total == 0 {
		return 0
	}
	rowPresent := a + c
	rowAbsent := b + d
	colFlare := a + b
	colBaseline := c + d
	if rowPresent == 0 || rowAbsent == 0 || colFlare == 0 || colBaseline == 0 {
		return 0
	}

	diff := a*d - b*c
	return total * diff * diff / (rowPresent * rowAbsent * colFlare * colBaseline)
}

// ChiSquarePValue is the upper tail probability for one degree of freedom.
func ChiSquarePValue(statistic float64) float64 {
	if statistic <= 0 {
		return 1
	}
	return math.Erfc(math.Sqrt(statistic / 2))
}
