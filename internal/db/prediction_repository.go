package db

import (
	"time"

	"github.com/mhutchens/flaretrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PredictionRepository struct {
	database *gorm.DB
}

func NewPredictionRepository(database *gorm.DB) *PredictionRepository {
	return &PredictionRepository{database: database}
}

// Upsert replaces the prediction for the user/date pair; re-predicting the
// same day overwrites the earlier score and resets reconciliation.
func (repo *PredictionRepository) Upsert(prediction *models.PredictionRecord) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "band", "predicted_at", "actual_flare", "correct",
		}),
	}).Create(prediction).Error
}

func (repo *PredictionRepository) ListUnreconciled(userID uint, before time.Time) ([]models.PredictionRecord, error) {
	predictions := make([]models.PredictionRecord, 0)
	if err := repo.database.
		Where("user_id = ? AND date < ? AND actual_flare IS NULL", userID, before).
		Order("date ASC, id ASC").
		Find(&predictions).Error; err != nil {
		return nil, err
	}
	return predictions, nil
}

func (repo *PredictionRepository) SaveReconciliation(prediction *models.PredictionRecord) error {
	return repo.database.
		Model(prediction).
		Select("actual_flare", "correct").
		Updates(prediction).Error
}

func (repo *PredictionRepository) CountReconciled(userID uint) (total int64, correct int64, err error) {
	if err = repo.database.Model(&models.PredictionRecord{}).
		Where("user_id = ? AND correct IS NOT NULL", userID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = repo.database.Model(&models.PredictionRecord{}).
		Where("user_id = ? AND correct = ?", userID, true).
		Count(&correct).Error; err != nil {
		return 0, 0, err
	}
	return total, correct, nil
}
