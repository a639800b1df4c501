package services

import "time"

// EngineConfig holds the tunable constants of the correlation engine. The
// baseline floor and thresholds are smoothing/filter knobs, not statistical
// estimators; defaults are the documented analysis rules.
type EngineConfig struct {
	FlareThreshold         float64
	MinFlareDays           int
	MinTotalDays           int
	MinOccurrences         int
	SignificanceThreshold  float64
	BaselineFloor          float64
	FoodLookback           time.Duration
	ExerciseLookback       time.Duration
	ActivityLookback       time.Duration
	PoorSleepHours         float64
	ExcessiveSleepHours    float64
	HighStressLevel        int
	HighIntensityThreshold int
	DefaultWindowDays      int
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		FlareThreshold:         7.0,
		MinFlareDays:           3,
		MinTotalDays:           7,
		MinOccurrences:         3,
		SignificanceThreshold:  0.25,
		BaselineFloor:          0.1,
		FoodLookback:           6 * time.Hour,
		ExerciseLookback:       24 * time.Hour,
		ActivityLookback:       24 * time.Hour,
		PoorSleepHours:         6.0,
		ExcessiveSleepHours:    10.0,
		HighStressLevel:        8,
		HighIntensityThreshold: 7,
		DefaultWindowDays:      30,
	}
}
