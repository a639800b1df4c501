package services

import (
	"time"

	"github.com/mhutchens/flaretrack/internal/models"
)

// Lookback windows are anchored to the timestamps of the symptoms that made a
// day a flare day, not to the day boundary. A factor counts as present on a
// flare day when at least one matching entry falls inside the window of at
// least one anchoring symptom; windows from multiple symptoms are unioned.
// Presence is boolean per day so one day with many occurrences cannot
// dominate the statistic.

func inAnyWindow(entryTime time.Time, anchors []time.Time, lookback time.Duration) bool {
	for _, anchor := range anchors {
		if entryTime.Before(anchor) && !entryTime.Before(anchor.Add(-lookback)) {
			return true
		}
	}
	return false
}

// factorPresentOnFlareDay scans the flare day's own entries and, because a
// lookback window can cross midnight, the immediately preceding day's
// entries. previous is nil when the prior calendar day has no record.
func factorPresentOnFlareDay(day DayAnalysis, previous *DayAnalysis, factor Factor, cfg EngineConfig) bool {
	switch factor.Kind {
	case FactorKindFood:
		return foodInWindow(day, previous, factor.Value, cfg.FoodLookback)
	case FactorKindExercise:
		return exerciseInWindow(day, previous, factor.Value, cfg.ExerciseLookback)
	case FactorKindActivity:
		return activityInWindow(day, previous, factor.Value, cfg.ActivityLookback)
	case FactorKindDerived:
		return derivedPresentOnFlareDay(day, previous, factor.Value, cfg)
	}
	return false
}

// factorPresentOnBaselineDay has no symptom anchor; presence means a matching
// entry exists on the day itself (sleep factors read the prior night, which
// lives on the previous day's record).
func factorPresentOnBaselineDay(day DayAnalysis, previous *DayAnalysis, factor Factor, cfg EngineConfig) bool {
	switch factor.Kind {
	case FactorKindFood:
		for _, food := range day.Foods {
			if NormalizeFoodName(food.Name) == factor.Value {
				return true
			}
		}
	case FactorKindExercise:
		for _, exercise := range day.Exercises {
			if exerciseFactor(exercise.Type).Value == factor.Value {
				return true
			}
		}
	case FactorKindActivity:
		for _, activity := range day.Activities {
			if activityFactor(activity.Type).Value == factor.Value {
				return true
			}
		}
	case FactorKindDerived:
		return derivedPresentOnBaselineDay(day, previous, factor.Value, cfg)
	}
	return false
}

func foodInWindow(day DayAnalysis, previous *DayAnalysis, value string, lookback time.Duration) bool {
	for _, food := range day.Foods {
		if NormalizeFoodName(food.Name) == value && inAnyWindow(food.OccurredAt, day.FlareAnchors, lookback) {
			return true
		}
	}
	if previous != nil {
		for _, food := range previous.Foods {
			if NormalizeFoodName(food.Name) == value && inAnyWindow(food.OccurredAt, day.FlareAnchors, lookback) {
				return true
			}
		}
	}
	return false
}

func exerciseInWindow(day DayAnalysis, previous *DayAnalysis, value string, lookback time.Duration) bool {
	for _, exercise := range day.Exercises {
		if exerciseFactor(exercise.Type).Value == value && inAnyWindow(exercise.OccurredAt, day.FlareAnchors, lookback) {
			return true
		}
	}
	if previous != nil {
		for _, exercise := range previous.Exercises {
			if exerciseFactor(exercise.Type).Value == value && inAnyWindow(exercise.OccurredAt, day.FlareAnchors, lookback) {
				return true
			}
		}
	}
	return false
}

func activityInWindow(day DayAnalysis, previous *DayAnalysis, value string, lookback time.Duration) bool {
	for _, activity := range day.Activities {
		if activityFactor(activity.Type).Value == value && inAnyWindow(activity.OccurredAt, day.FlareAnchors, lookback) {
			return true
		}
	}
	if previous != nil {
		for _, activity := range previous.Activities {
			if activityFactor(activity.Type).Value == value && inAnyWindow(activity.OccurredAt, day.FlareAnchors, lookback) {
				return true
			}
		}
	}
	return false
}

func derivedPresentOnFlareDay(day DayAnalysis, previous *DayAnalysis, value string, cfg EngineConfig) bool {
	switch value {
	case DerivedHighIntensityExercise:
		if highIntensityInWindow(day.Exercises, day.FlareAnchors, cfg) {
			return true
		}
		return previous != nil && highIntensityInWindow(previous.Exercises, day.FlareAnchors, cfg)
	case DerivedHighStress:
		if highStressInWindow(day, day.FlareAnchors, cfg) {
			return true
		}
		return previous != nil && highStressInWindow(*previous, day.FlareAnchors, cfg)
	case DerivedPoorSleep, DerivedExcessiveSleep:
		return sleepFactorPresent(previous, value, cfg)
	}
	return false
}

func derivedPresentOnBaselineDay(day DayAnalysis, previous *DayAnalysis, value string, cfg EngineConfig) bool {
	switch value {
	case DerivedHighIntensityExercise:
		for _, exercise := range day.Exercises {
			if exercise.Intensity >= cfg.HighIntensityThreshold {
				return true
			}
		}
	case DerivedHighStress:
		for _, activity := range day.Activities {
			if activity.StressLevel != nil && *activity.StressLevel >= cfg.HighStressLevel {
				return true
			}
		}
	case DerivedPoorSleep, DerivedExcessiveSleep:
		return sleepFactorPresent(previous, value, cfg)
	}
	return false
}

func highIntensityInWindow(exercises []models.ExerciseEntry, anchors []time.Time, cfg EngineConfig) bool {
	for _, exercise := range exercises {
		if exercise.Intensity >= cfg.HighIntensityThreshold && inAnyWindow(exercise.OccurredAt, anchors, cfg.ExerciseLookback) {
			return true
		}
	}
	return false
}

func highStressInWindow(day DayAnalysis, anchors []time.Time, cfg EngineConfig) bool {
	for _, activity := range day.Activities {
		if activity.StressLevel != nil && *activity.StressLevel >= cfg.HighStressLevel &&
			inAnyWindow(activity.OccurredAt, anchors, cfg.ActivityLookback) {
			return true
		}
	}
	return false
}

// sleepFactorPresent reads last night's sleep: the hours the user recorded on
// the previous day's record.
func sleepFactorPresent(previous *DayAnalysis, value string, cfg EngineConfig) bool {
	if previous == nil || previous.SleepHours == nil {
		return false
	}
	switch value {
	case DerivedPoorSleep:
		return *previous.SleepHours < cfg.PoorSleepHours
	case DerivedExcessiveSleep:
		return *previous.SleepHours > cfg.ExcessiveSleepHours
	}
	return false
}
