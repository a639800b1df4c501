package services

import (
	"fmt"
	"sort"
	"strings"
)

const (
	FactorKindFood     = "food"
	FactorKindExercise = "exercise"
	FactorKindActivity = "activity"
	FactorKindDerived  = "derived"
)

const (
	DerivedHighIntensityExercise = "high_intensity_exercise"
	DerivedPoorSleep             = "poor_sleep"
	DerivedExcessiveSleep        = "excessive_sleep"
	DerivedHighStress            = "high_stress"
)

// Factor is an analysis-time abstraction derived from entries; it is never
// persisted.
type Factor struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
	Label string `json:"label"`
}

func (f Factor) Key() string {
	return f.Kind + ":" + f.Value
}

// NormalizeFoodName case-folds and trims free-text food names so identical
// foods logged with different casing group into one factor.
func NormalizeFoodName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func foodFactor(name string) Factor {
	normalized := NormalizeFoodName(name)
	return Factor{Kind: FactorKindFood, Value: normalized, Label: titleCase(normalized)}
}

func exerciseFactor(exerciseType string) Factor {
	normalized := strings.ToLower(strings.TrimSpace(exerciseType))
	return Factor{Kind: FactorKindExercise, Value: normalized, Label: titleCase(normalized) + " exercise"}
}

func activityFactor(activityType string) Factor {
	normalized := strings.ToLower(strings.TrimSpace(activityType))
	return Factor{Kind: FactorKindActivity, Value: normalized, Label: titleCase(normalized) + " activity"}
}

func derivedFactors(cfg EngineConfig) []Factor {
	return []Factor{
		{
			Kind:  FactorKindDerived,
			Value: DerivedHighIntensityExercise,
			Label: fmt.Sprintf("High-intensity exercise (>=%d)", cfg.HighIntensityThreshold),
		},
		{
			Kind:  FactorKindDerived,
			Value: DerivedPoorSleep,
			Label: fmt.Sprintf("Poor sleep (<%.0fh)", cfg.PoorSleepHours),
		},
		{
			Kind:  FactorKindDerived,
			Value: DerivedExcessiveSleep,
			Label: fmt.Sprintf("Excessive sleep (>%.0fh)", cfg.ExcessiveSleepHours),
		},
		{
			Kind:  FactorKindDerived,
			Value: DerivedHighStress,
			Label: fmt.Sprintf("High stress (>=%d)", cfg.HighStressLevel),
		},
	}
}

// CollectFactors builds the candidate factor universe: every distinct food
// name, exercise type and activity type present in the data, plus the fixed
// derived factors. Output is sorted by key so analysis order is total.
func CollectFactors(days []DayAnalysis, cfg EngineConfig) []Factor {
	byKey := make(map[string]Factor)

	for _, day := range days {
		for _, food := range day.Foods {
			factor := foodFactor(food.Name)
			byKey[factor.Key()] = factor
		}
		for _, exercise := range day.Exercises {
			factor := exerciseFactor(exercise.Type)
			if factor.Value == "" {
				continue
			}
			byKey[factor.Key()] = factor
		}
		for _, activity := range day.Activities {
			factor := activityFactor(activity.Type)
			byKey[factor.Key()] = factor
		}
	}

	for _, factor := range derivedFactors(cfg) {
		byKey[factor.Key()] = factor
	}

	factors := make([]Factor, 0, len(byKey))
	for _, factor := range byKey {
		factors = append(factors, factor)
	}
	sort.Slice(factors, func(i, j int) bool {
		return factors[i].Key() < factors[j].Key()
	})
	return factors
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
