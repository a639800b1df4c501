package services

import (
	"strings"
	"testing"
)

func TestRankFactorsOrdering(t *testing.T) {
	cfg := DefaultEngineConfig()

	stats := []FactorStats{
		{Factor: foodFactor("coffee"), FlareOccurrences: 3, BaselineOccurrences: 1, TotalFlareDays: 5, TotalBaselineDays: 10, RawCorrelation: 0.5},
		{Factor: foodFactor("chocolate"), FlareOccurrences: 4, BaselineOccurrences: 0, TotalFlareDays: 5, TotalBaselineDays: 10, RawCorrelation: 8},
		{Factor: foodFactor("bread"), FlareOccurrences: 3, BaselineOccurrences: 2, TotalFlareDays: 5, TotalBaselineDays: 10, RawCorrelation: 0.5},
		{Factor: foodFactor("apple"), FlareOccurrences: 3, BaselineOccurrences: 2, TotalFlareDays: 5, TotalBaselineDays: 10, RawCorrelation: -0.5},
	}

	results := RankFactors(stats, cfg)
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}

	// Strongest first, then more occurrences, then key order for ties.
	wantOrder := []string{"food:chocolate", "food:apple", "food:bread", "food:coffee"}
	for index, want := range wantOrder {
		if got := results[index].Factor.Key(); got != want {
			t.Fatalf("results[%d] = %q, want %q (full order: %v)", index, got, want, resultKeys(results))
		}
	}
}

func resultKeys(results []CorrelationResult) []string {
	keys := make([]string, 0, len(results))
	for _, result := range results {
		keys = append(keys, result.Factor.Key())
	}
	return keys
}

func TestBuildResultClampsAndSigns(t *testing.T) {
	cfg := DefaultEngineConfig()

	trigger := buildResult(FactorStats{
		Factor:           foodFactor("chocolate"),
		FlareOccurrences: 3, TotalFlareDays: 3, TotalBaselineDays: 7,
		RawCorrelation: 10,
	}, cfg)
	if trigger.Strength != 1.0 {
		t.Fatalf("Strength = %v, want clamp to 1.0", trigger.Strength)
	}
	if trigger.IsProtective {
		t.Fatalf("positive raw correlation must not be protective")
	}
	if trigger.Occurrences != 3 {
		t.Fatalf("Occurrences = %d, want 3", trigger.Occurrences)
	}
	if trigger.Confidence != ConfidenceLow {
		t.Fatalf("Confidence = %q, want %q", trigger.Confidence, ConfidenceLow)
	}
	if !strings.Contains(trigger.Description, "before flares") {
		t.Fatalf("trigger description = %q", trigger.Description)
	}
	if trigger.Window != "6h before symptoms" {
		t.Fatalf("Window = %q, want %q", trigger.Window, "6h before symptoms")
	}
	if trigger.PValue <= 0 || trigger.PValue >= 1 {
		t.Fatalf("PValue = %v, want inside (0, 1)", trigger.PValue)
	}

	protective := buildResult(FactorStats{
		Factor:              foodFactor("ginger tea"),
		FlareOccurrences:    3,
		BaselineOccurrences: 7,
		TotalFlareDays:      10, TotalBaselineDays: 10,
		RawCorrelation: -0.4,
	}, cfg)
	if !protective.IsProtective {
		t.Fatalf("negative raw correlation must be protective")
	}
	if protective.Strength != 0.4 {
		t.Fatalf("Strength = %v, want 0.4", protective.Strength)
	}
	if !strings.Contains(protective.Description, "better days") {
		t.Fatalf("protective description = %q", protective.Description)
	}
}

func TestWindowLabelPerKind(t *testing.T) {
	cfg := DefaultEngineConfig()

	tests := []struct {
		name   string
		factor Factor
		want   string
	}{
		{name: "food", factor: foodFactor("chocolate"), want: "6h before symptoms"},
		{name: "exercise", factor: exerciseFactor("running"), want: "24h before symptoms"},
		{name: "activity", factor: activityFactor("work"), want: "24h before symptoms"},
		{name: "sleep", factor: Factor{Kind: FactorKindDerived, Value: DerivedPoorSleep}, want: "prior night"},
		{name: "derived exercise", factor: Factor{Kind: FactorKindDerived, Value: DerivedHighIntensityExercise}, want: "24h before symptoms"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := windowLabel(testCase.factor, cfg); got != testCase.want {
				t.Fatalf("windowLabel() = %q, want %q", got, testCase.want)
			}
		})
	}
}
