package services

import "testing"

func TestConfidenceGradeThresholds(t *testing.T) {
	tests := []struct {
		name     string
		flare    int
		baseline int
		want     string
	}{
		{name: "few occurrences", flare: 3, baseline: 1, want: ConfidenceLow},
		{name: "medium boundary", flare: 3, baseline: 2, want: ConfidenceMedium},
		{name: "below high boundary", flare: 5, baseline: 4, want: ConfidenceMedium},
		{name: "high boundary", flare: 5, baseline: 5, want: ConfidenceHigh},
		{name: "well above high", flare: 20, baseline: 10, want: ConfidenceHigh},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := ConfidenceGrade(testCase.flare, testCase.baseline); got != testCase.want {
				t.Fatalf("ConfidenceGrade(%d, %d) = %q, want %q", testCase.flare, testCase.baseline, got, testCase.want)
			}
		})
	}
}

func TestConfidenceGradeMonotonic(t *testing.T) {
	previous := 0
	for combined := 0; combined <= 30; combined++ {
		rank := confidenceRank(ConfidenceGrade(combined, 0))
		if rank < previous {
			t.Fatalf("confidence dropped from rank %d to %d at %d occurrences", previous, rank, combined)
		}
		previous = rank
	}
}

func TestChiSquareStatistic(t *testing.T) {
	// Perfect association: factor on every flare day, never on baseline.
	perfect := FactorStats{FlareOccurrences: 5, BaselineOccurrences: 0, TotalFlareDays: 5, TotalBaselineDays: 5}
	if got := ChiSquareStatistic(perfect); got != 10 {
		t.Fatalf("ChiSquareStatistic(perfect) = %v, want 10", got)
	}

	// No association: same frequency on both sides.
	even := FactorStats{FlareOccurrences: 2, BaselineOccurrences: 2, TotalFlareDays: 4, TotalBaselineDays: 4}
	if got := ChiSquareStatistic(even); got != 0 {
		t.Fatalf("ChiSquareStatistic(even) = %v, want 0", got)
	}

	// Degenerate margins collapse to zero instead of dividing by zero.
	degenerate := FactorStats{FlareOccurrences: 5, BaselineOccurrences: 5, TotalFlareDays: 5, TotalBaselineDays: 5}
	if got := ChiSquareStatistic(degenerate); got != 0 {
		t.Fatalf("ChiSquareStatistic(degenerate) = %v, want 0", got)
	}
	if got := ChiSquareStatistic(FactorStats{}); got != 0 {
		t.Fatalf("ChiSquareStatistic(empty) = %v, want 0", got)
	}
}

func TestChiSquarePValue(t *testing.T) {
	if got := ChiSquarePValue(0); got != 1 {
		t.Fatalf("ChiSquarePValue(0) = %v, want 1", got)
	}
	strong := ChiSquarePValue(10)
	weak := ChiSquarePValue(0.5)
	if strong <= 0 || strong >= weak || weak >= 1 {
		t.Fatalf("expected 0 < p(10)=%v < p(0.5)=%v < 1", strong, weak)
	}
	if strong > 0.01 {
		t.Fatalf("chi-square 10 with 1 dof should be significant, got p=%v", strong)
	}
}
