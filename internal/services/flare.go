package services

import (
	"sort"
	"time"

	"github.com/mhutchens/flaretrack/internal/models"
)

// DayAnalysis is the engine's cleaned snapshot of one logged day. Entries
// that violate their value-range invariants are dropped here and counted as
// warnings; everything downstream sees only valid entries.
type DayAnalysis struct {
	Date         time.Time
	SleepHours   *float64
	Symptoms     []models.SymptomEntry
	Foods        []models.FoodEntry
	Exercises    []models.ExerciseEntry
	Activities   []models.ActivityEntry
	IsFlare      bool
	MeanSeverity float64
	FlareAnchors []time.Time
	Warnings     int
}

// ClassifyDay labels one record as flare or baseline. A day is a flare day
// iff it has at least one valid symptom entry and the mean severity is at or
// above the flare threshold. A logged day without symptoms is a legitimate
// baseline day; absence of symptoms is informative.
func ClassifyDay(record models.DailyRecord, cfg EngineConfig) DayAnalysis {
	day := DayAnalysis{Date: record.Date, SleepHours: record.SleepHours}

	if record.SleepHours != nil && (*record.SleepHours < 0 || *record.SleepHours > 24) {
		day.SleepHours = nil
		day.Warnings++
	}

	severitySum := 0
	for _, symptom := range record.Symptoms {
		if symptom.Severity < 1 || symptom.Severity > 10 || symptom.OccurredAt.IsZero() {
			day.Warnings++
			continue
		}
		day.Symptoms = append(day.Symptoms, symptom)
		severitySum += symptom.Severity
	}

	for _, food := range record.Foods {
		if NormalizeFoodName(food.Name) == "" || food.OccurredAt.IsZero() {
			day.Warnings++
			continue
		}
		day.Foods = append(day.Foods, food)
	}

	for _, exercise := range record.Exercises {
		if exercise.DurationMin < 1 || exercise.DurationMin > 480 ||
			exercise.Intensity < 1 || exercise.Intensity > 10 || exercise.OccurredAt.IsZero() {
			day.Warnings++
			continue
		}
		day.Exercises = append(day.Exercises, exercise)
	}

	for _, activity := range record.Activities {
		if activity.Type == "" || activity.OccurredAt.IsZero() ||
			(activity.StressLevel != nil && (*activity.StressLevel < 1 || *activity.StressLevel > 10)) {
			day.Warnings++
			continue
		}
		day.Activities = append(day.Activities, activity)
	}

	if len(day.Symptoms) > 0 {
		day.MeanSeverity = float64(severitySum) / float64(len(day.Symptoms))
		if day.MeanSeverity >= cfg.FlareThreshold {
			day.IsFlare = true
			for _, symptom := range day.Symptoms {
				day.FlareAnchors = append(day.FlareAnchors, symptom.OccurredAt)
			}
		}
	}

	return day
}

// ClassifyDays converts records into sorted day snapshots plus the total
// count of malformed entries that were skipped.
func ClassifyDays(records []models.DailyRecord, cfg EngineConfig) ([]DayAnalysis, int) {
	days := make([]DayAnalysis, 0, len(records))
	warnings := 0
	for _, record := range records {
		day := ClassifyDay(record, cfg)
		warnings += day.Warnings
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days, warnings
}

func countFlareDays(days []DayAnalysis) int {
	count := 0
	for _, day := range days {
		if day.IsFlare {
			count++
		}
	}
	return count
}
