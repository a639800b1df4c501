package services

import (
	"math"
	"time"

	"github.com/mhutchens/flaretrack/internal/models"
	"go.uber.org/zap"
)

// ReconcilePredictions compares past predictions against the realized flare
// labels once the predicted days have records. Days that were never logged
// stay unreconciled; a logged day without symptoms counts as "no flare".
func (service *RiskService) ReconcilePredictions(userID uint) error {
	if service.predictions == nil {
		return nil
	}

	today := DateAtLocation(service.now(), service.location)
	pending, err := service.predictions.ListUnreconciled(userID, today)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	from := pending[0].Date
	to := pending[len(pending)-1].Date.AddDate(0, 0, 1)
	records, err := service.store.FetchDailyRecords(userID, from, to)
	if err != nil {
		return err
	}

	flareByDate := make(map[time.Time]bool, len(records))
	for _, record := range records {
		day := ClassifyDay(record, service.cfg)
		flareByDate[DateAtLocation(day.Date, service.location)] = day.IsFlare
	}

	for index := range pending {
		date := DateAtLocation(pending[index].Date, service.location)
		actualFlare, logged := flareByDate[date]
		if !logged {
			continue
		}

		// A green band predicted "no flare"; yellow and red predicted one.
		predictedFlare := pending[index].Band != models.RiskBandGreen
		correct := predictedFlare == actualFlare

		pending[index].ActualFlare = &actualFlare
		pending[index].Correct = &correct
		if err := service.predictions.SaveReconciliation(&pending[index]); err != nil {
			service.log.Warn("save reconciliation failed",
				zap.Uint("user_id", userID),
				zap.Time("date", date),
				zap.Error(err))
		}
	}
	return nil
}

// Accuracy returns the running band-classification accuracy over all
// reconciled predictions.
func (service *RiskService) Accuracy(userID uint) (PredictionAccuracy, error) {
	if service.predictions == nil {
		return PredictionAccuracy{}, nil
	}

	total, correct, err := service.predictions.CountReconciled(userID)
	if err != nil {
		return PredictionAccuracy{}, err
	}

	accuracy := PredictionAccuracy{
		TotalPredictions:   int(total),
		CorrectPredictions: int(correct),
	}
	if total > 0 {
		accuracy.AccuracyPercent = math.Round(float64(correct)/float64(total)*1000) / 10
	}
	return accuracy, nil
}
