package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/mhutchens/flaretrack/internal/models"
	"go.uber.org/zap"
)

// Fixed model weights. Static constants, never learned; the accuracy tracker
// observes them but does not feed back.
const (
	riskWeightSleep    = 0.35
	riskWeightExercise = 0.30
	riskWeightFood     = 0.25
	riskWeightStress   = 0.10
)

const (
	riskBandGreenMax  = 30
	riskBandYellowMax = 65
	elevatedSubScore  = 60
)

// RiskScore is the forward-looking estimate for tomorrow computed from
// today's partial data.
type RiskScore struct {
	Value         int       `json:"value"`
	Band          string    `json:"band"`
	SleepScore    float64   `json:"sleep_score"`
	ExerciseScore float64   `json:"exercise_score"`
	FoodScore     float64   `json:"food_score"`
	StressScore   float64   `json:"stress_score"`
	ElevatedCount int       `json:"elevated_count"`
	ForDate       time.Time `json:"for_date"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type PredictionAccuracy struct {
	TotalPredictions   int     `json:"total_predictions"`
	CorrectPredictions int     `json:"correct_predictions"`
	AccuracyPercent    float64 `json:"accuracy_percent"`
}

type PredictionStore interface {
	Upsert(prediction *models.PredictionRecord) error
	ListUnreconciled(userID uint, before time.Time) ([]models.PredictionRecord, error)
	SaveReconciliation(prediction *models.PredictionRecord) error
	CountReconciled(userID uint) (total int64, correct int64, err error)
}

type RiskService struct {
	store        LogStore
	predictions  PredictionStore
	correlations *CorrelationService
	cfg          EngineConfig
	location     *time.Location
	log          *zap.Logger
	now          func() time.Time
}

func NewRiskService(store LogStore, predictions PredictionStore, correlations *CorrelationService, cfg EngineConfig, location *time.Location, logger *zap.Logger) *RiskService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskService{
		store:        store,
		predictions:  predictions,
		correlations: correlations,
		cfg:          cfg,
		location:     location,
		log:          logger,
		now:          time.Now,
	}
}

// PredictRiskForToday scores tomorrow's flare risk from whatever the user has
// logged so far today, plus last night's sleep and the ranked trigger
// factors from the latest correlation run.
func (service *RiskService) PredictRiskForToday(ctx context.Context, userID uint) (RiskScore, error) {
	today := DateAtLocation(service.now(), service.location)
	yesterday := today.AddDate(0, 0, -1)

	records, err := service.store.FetchDailyRecords(userID, yesterday, today.AddDate(0, 0, 1))
	if err != nil {
		return RiskScore{}, err
	}

	var todayDay, yesterdayDay *DayAnalysis
	for _, record := range records {
		day := ClassifyDay(record, service.cfg)
		switch {
		case sameCalendarDay(day.Date, today):
			snapshot := day
			todayDay = &snapshot
		case sameCalendarDay(day.Date, yesterday):
			snapshot := day
			yesterdayDay = &snapshot
		}
	}

	triggers := service.knownTriggers(ctx, userID)
	score := service.scoreDay(todayDay, yesterdayDay, triggers)
	score.ForDate = today.AddDate(0, 0, 1)
	score.GeneratedAt = service.now()

	if service.predictions != nil {
		prediction := &models.PredictionRecord{
			UserID:      userID,
			Date:        score.ForDate,
			Score:       score.Value,
			Band:        score.Band,
			PredictedAt: score.GeneratedAt,
		}
		if err := service.predictions.Upsert(prediction); err != nil {
			service.log.Warn("persist prediction failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	return score, nil
}

// knownTriggers returns trigger factors with at least medium confidence from
// the latest correlation run; insufficient history simply means no known
// triggers yet.
func (service *RiskService) knownTriggers(ctx context.Context, userID uint) []CorrelationResult {
	if service.correlations == nil {
		return nil
	}
	set, err := service.correlations.ComputeCorrelations(ctx, userID, 0)
	if err != nil {
		if !errors.Is(err, ErrInsufficientData) {
			service.log.Warn("trigger lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		}
		return nil
	}

	triggers := make([]CorrelationResult, 0, len(set.Results))
	for _, result := range set.Results {
		if !result.IsProtective && confidenceRank(result.Confidence) >= confidenceRank(ConfidenceMedium) {
			triggers = append(triggers, result)
		}
	}
	return triggers
}

func (service *RiskService) scoreDay(today *DayAnalysis, yesterday *DayAnalysis, triggers []CorrelationResult) RiskScore {
	score := RiskScore{
		SleepScore:    service.sleepSubScore(today, yesterday),
		ExerciseScore: service.exerciseSubScore(today, yesterday),
		FoodScore:     service.foodSubScore(today, triggers),
		StressScore:   service.stressSubScore(today),
	}

	for _, sub := range []float64{score.SleepScore, score.ExerciseScore, score.FoodScore, score.StressScore} {
		if sub >= elevatedSubScore {
			score.ElevatedCount++
		}
	}

	weighted := riskWeightSleep*score.SleepScore +
		riskWeightExercise*score.ExerciseScore +
		riskWeightFood*score.FoodScore +
		riskWeightStress*score.StressScore

	// Two or more elevated factors compound multiplicatively: combined risk
	// exceeds the sum of the parts.
	if score.ElevatedCount >= 2 {
		weighted *= 1 + 0.1*float64(score.ElevatedCount-1)
	}

	score.Value = int(math.Round(math.Min(math.Max(weighted, 0), 100)))
	score.Band = riskBand(score.Value)
	return score
}

// sleepSubScore grades last night's sleep: the hours on today's record, or
// yesterday's when today has none yet. Monotonic: less sleep never lowers
// the sub-score.
func (service *RiskService) sleepSubScore(today *DayAnalysis, yesterday *DayAnalysis) float64 {
	var hours *float64
	if today != nil && today.SleepHours != nil {
		hours = today.SleepHours
	} else if yesterday != nil && yesterday.SleepHours != nil {
		hours = yesterday.SleepHours
	}
	if hours == nil {
		return 35
	}

	switch {
	case *hours < 5:
		return 90
	case *hours >= 7:
		return 15
	default:
		// Linear between 5h (90) and 7h (15).
		return 90 - (*hours-5)*37.5
	}
}

func (service *RiskService) exerciseSubScore(today *DayAnalysis, yesterday *DayAnalysis) float64 {
	todayHigh := false
	todayModerate := false
	if today != nil {
		for _, exercise := range today.Exercises {
			if exercise.Intensity >= service.cfg.HighIntensityThreshold {
				todayHigh = true
			} else if exercise.Intensity >= 3 && exercise.DurationMin >= 20 {
				todayModerate = true
			}
		}
	}

	yesterdayHigh := false
	if yesterday != nil {
		for _, exercise := range yesterday.Exercises {
			if exercise.Intensity >= service.cfg.HighIntensityThreshold {
				yesterdayHigh = true
			}
		}
	}

	switch {
	case todayHigh:
		// High intensity today has, by definition, no rest day after it yet.
		return 75
	case yesterdayHigh && today != nil && len(today.Exercises) > 0:
		return 70
	case todayModerate:
		return 15
	default:
		return 35
	}
}

func (service *RiskService) foodSubScore(today *DayAnalysis, triggers []CorrelationResult) float64 {
	if today == nil || len(today.Foods) == 0 || len(triggers) == 0 {
		return 25
	}

	eaten := make(map[string]bool, len(today.Foods))
	for _, food := range today.Foods {
		eaten[NormalizeFoodName(food.Name)] = true
	}

	best := 25.0
	for _, trigger := range triggers {
		if trigger.Factor.Kind != FactorKindFood || !eaten[trigger.Factor.Value] {
			continue
		}
		candidate := math.Min(40+trigger.Strength*55, 95)
		if candidate > best {
			best = candidate
		}
	}
	return best
}

func (service *RiskService) stressSubScore(today *DayAnalysis) float64 {
	if today == nil {
		return 25
	}
	maxStress := 0
	for _, activity := range today.Activities {
		if activity.StressLevel != nil && *activity.StressLevel > maxStress {
			maxStress = *activity.StressLevel
		}
	}
	switch {
	case maxStress >= service.cfg.HighStressLevel:
		return 80
	case maxStress >= 6:
		return 50
	default:
		return 25
	}
}

func riskBand(value int) string {
	switch {
	case value <= riskBandGreenMax:
		return models.RiskBandGreen
	case value <= riskBandYellowMax:
		return models.RiskBandYellow
	default:
		return models.RiskBandRed
	}
}
