package services

import (
	"testing"
	"time"

	"github.com/mhutchens/flaretrack/internal/models"
)

func testDay(date time.Time) models.DailyRecord {
	return models.DailyRecord{Date: date}
}

func symptomAt(at time.Time, severity int) models.SymptomEntry {
	return models.SymptomEntry{Name: "headache", Severity: severity, OccurredAt: at}
}

func foodAt(at time.Time, name string) models.FoodEntry {
	return models.FoodEntry{Name: name, MealCategory: models.MealLunch, OccurredAt: at}
}

func exerciseAt(at time.Time, exerciseType string, intensity int, durationMin int) models.ExerciseEntry {
	return models.ExerciseEntry{Type: exerciseType, Intensity: intensity, DurationMin: durationMin, OccurredAt: at}
}

func activityAt(at time.Time, activityType string, stress *int) models.ActivityEntry {
	return models.ActivityEntry{Type: activityType, StressLevel: stress, OccurredAt: at}
}

func floatPtr(value float64) *float64 { return &value }
func intPtr(value int) *int           { return &value }

func TestClassifyDayFlareThreshold(t *testing.T) {
	cfg := DefaultEngineConfig()
	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	noon := date.Add(12 * time.Hour)

	tests := []struct {
		name       string
		severities []int
		wantFlare  bool
		wantMean   float64
	}{
		{name: "mean at threshold is a flare", severities: []int{7}, wantFlare: true, wantMean: 7},
		{name: "mean below threshold is baseline", severities: []int{6, 7}, wantFlare: false, wantMean: 6.5},
		{name: "mean above threshold is a flare", severities: []int{8, 9}, wantFlare: true, wantMean: 8.5},
		{name: "no symptoms is baseline", severities: nil, wantFlare: false, wantMean: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			record := testDay(date)
			for _, severity := range testCase.severities {
				record.Symptoms = append(record.Symptoms, symptomAt(noon, severity))
			}

			day := ClassifyDay(record, cfg)
			if day.IsFlare != testCase.wantFlare {
				t.Fatalf("IsFlare = %v, want %v", day.IsFlare, testCase.wantFlare)
			}
			if day.MeanSeverity != testCase.wantMean {
				t.Fatalf("MeanSeverity = %v, want %v", day.MeanSeverity, testCase.wantMean)
			}
			if day.Warnings != 0 {
				t.Fatalf("Warnings = %d, want 0", day.Warnings)
			}
		})
	}
}

func TestClassifyDayAnchorsFlareSymptoms(t *testing.T) {
	cfg := DefaultEngineConfig()
	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	morning := date.Add(9 * time.Hour)
	evening := date.Add(19 * time.Hour)

	record := testDay(date)
	record.Symptoms = append(record.Symptoms, symptomAt(morning, 8), symptomAt(evening, 7))

	day := ClassifyDay(record, cfg)
	if !day.IsFlare {
		t.Fatalf("expected flare day")
	}
	if len(day.FlareAnchors) != 2 {
		t.Fatalf("expected 2 flare anchors, got %d", len(day.FlareAnchors))
	}
	if !day.FlareAnchors[0].Equal(morning) || !day.FlareAnchors[1].Equal(evening) {
		t.Fatalf("anchors do not match symptom timestamps: %v", day.FlareAnchors)
	}
}

func TestClassifyDaySkipsMalformedEntries(t *testing.T) {
	cfg := DefaultEngineConfig()
	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	noon := date.Add(12 * time.Hour)

	record := testDay(date)
	record.SleepHours = floatPtr(30)
	record.Symptoms = append(record.Symptoms,
		symptomAt(noon, 8),
		symptomAt(noon, 11),
		models.SymptomEntry{Name: "migraine", Severity: 5},
	)
	record.Foods = append(record.Foods,
		foodAt(noon, "   "),
		foodAt(noon, "chocolate"),
	)
	record.Exercises = append(record.Exercises,
		exerciseAt(noon, "running", 12, 30),
		exerciseAt(noon, "walking", 3, 600),
	)
	record.Activities = append(record.Activities,
		activityAt(noon, models.ActivityWork, intPtr(15)),
	)

	day := ClassifyDay(record, cfg)
	if day.Warnings != 6 {
		t.Fatalf("Warnings = %d, want 6", day.Warnings)
	}
	if day.SleepHours != nil {
		t.Fatalf("expected out-of-range sleep hours to be dropped")
	}
	if len(day.Symptoms) != 1 || len(day.Foods) != 1 {
		t.Fatalf("expected only valid entries kept, got %d symptoms, %d foods", len(day.Symptoms), len(day.Foods))
	}
	if len(day.Exercises) != 0 || len(day.Activities) != 0 {
		t.Fatalf("expected malformed exercises and activities dropped")
	}
	if !day.IsFlare {
		t.Fatalf("remaining severity-8 symptom should classify the day as a flare")
	}
}

func TestClassifyDaysSortsByDate(t *testing.T) {
	cfg := DefaultEngineConfig()
	first := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 1)

	days, warnings := ClassifyDays([]models.DailyRecord{testDay(second), testDay(first)}, cfg)
	if warnings != 0 {
		t.Fatalf("warnings = %d, want 0", warnings)
	}
	if len(days) != 2 {
		t.Fatalf("len(days) = %d, want 2", len(days))
	}
	if !days[0].Date.Equal(first) || !days[1].Date.Equal(second) {
		t.Fatalf("days not sorted by date: %v, %v", days[0].Date, days[1].Date)
	}
}
