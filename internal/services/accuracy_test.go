package services

import (
	"testing"
	"time"

	"github.com/mhutchens/flaretrack/internal/models"
)

func TestReconcilePredictions(t *testing.T) {
	now := time.Date(2026, time.March, 20, 9, 0, 0, 0, time.UTC)
	monday := time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	wednesday := monday.AddDate(0, 0, 2)

	// Monday: red prediction, flare happened (correct).
	// Tuesday: green prediction, flare happened (incorrect).
	// Wednesday: yellow prediction, day never logged (stays pending).
	flareDay := testDay(monday)
	flareDay.Symptoms = append(flareDay.Symptoms, symptomAt(monday.Add(10*time.Hour), 9))
	secondFlare := testDay(tuesday)
	secondFlare.Symptoms = append(secondFlare.Symptoms, symptomAt(tuesday.Add(10*time.Hour), 8))

	store := &stubLogStore{records: []models.DailyRecord{flareDay, secondFlare}}
	predictions := &stubPredictionStore{
		pending: []models.PredictionRecord{
			{UserID: 1, Date: monday, Band: models.RiskBandRed},
			{UserID: 1, Date: tuesday, Band: models.RiskBandGreen},
			{UserID: 1, Date: wednesday, Band: models.RiskBandYellow},
		},
	}
	service := newTestRiskService(store, predictions, now)

	if err := service.ReconcilePredictions(1); err != nil {
		t.Fatalf("ReconcilePredictions() unexpected error: %v", err)
	}

	if len(predictions.reconciled) != 2 {
		t.Fatalf("reconciled %d predictions, want 2 (unlogged day stays pending)", len(predictions.reconciled))
	}

	red := predictions.reconciled[0]
	if red.ActualFlare == nil || !*red.ActualFlare || red.Correct == nil || !*red.Correct {
		t.Fatalf("red prediction on a flare day must be correct: %+v", red)
	}

	green := predictions.reconciled[1]
	if green.ActualFlare == nil || !*green.ActualFlare || green.Correct == nil || *green.Correct {
		t.Fatalf("green prediction on a flare day must be incorrect: %+v", green)
	}
}

func TestReconcilePredictionsNoFlareDay(t *testing.T) {
	now := time.Date(2026, time.March, 20, 9, 0, 0, 0, time.UTC)
	monday := time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC)

	// Logged day without symptoms counts as "no flare", so green is right.
	quiet := testDay(monday)
	quiet.Foods = append(quiet.Foods, foodAt(monday.Add(12*time.Hour), "rice"))

	store := &stubLogStore{records: []models.DailyRecord{quiet}}
	predictions := &stubPredictionStore{
		pending: []models.PredictionRecord{{UserID: 1, Date: monday, Band: models.RiskBandGreen}},
	}
	service := newTestRiskService(store, predictions, now)

	if err := service.ReconcilePredictions(1); err != nil {
		t.Fatalf("ReconcilePredictions() unexpected error: %v", err)
	}
	if len(predictions.reconciled) != 1 {
		t.Fatalf("reconciled %d predictions, want 1", len(predictions.reconciled))
	}
	outcome := predictions.reconciled[0]
	if outcome.ActualFlare == nil || *outcome.ActualFlare {
		t.Fatalf("symptomless logged day must reconcile as no flare: %+v", outcome)
	}
	if outcome.Correct == nil || !*outcome.Correct {
		t.Fatalf("green on a no-flare day must be correct: %+v", outcome)
	}
}

func TestReconcilePredictionsNothingPending(t *testing.T) {
	store := &stubLogStore{}
	predictions := &stubPredictionStore{}
	service := newTestRiskService(store, predictions, time.Now())

	if err := service.ReconcilePredictions(1); err != nil {
		t.Fatalf("ReconcilePredictions() unexpected error: %v", err)
	}
	if store.fetches != 0 {
		t.Fatalf("no pending predictions must mean no record fetch")
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		correct     int64
		wantPercent float64
	}{
		{name: "no reconciled predictions", total: 0, correct: 0, wantPercent: 0},
		{name: "two thirds", total: 3, correct: 2, wantPercent: 66.7},
		{name: "perfect", total: 4, correct: 4, wantPercent: 100},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			predictions := &stubPredictionStore{total: testCase.total, correct: testCase.correct}
			service := newTestRiskService(&stubLogStore{}, predictions, time.Now())

			accuracy, err := service.Accuracy(1)
			if err != nil {
				t.Fatalf("Accuracy() unexpected error: %v", err)
			}
			if accuracy.TotalPredictions != int(testCase.total) || accuracy.CorrectPredictions != int(testCase.correct) {
				t.Fatalf("counts = %d/%d, want %d/%d",
					accuracy.CorrectPredictions, accuracy.TotalPredictions, testCase.correct, testCase.total)
			}
			if accuracy.AccuracyPercent != testCase.wantPercent {
				t.Fatalf("AccuracyPercent = %v, want %v", accuracy.AccuracyPercent, testCase.wantPercent)
			}
		})
	}
}
