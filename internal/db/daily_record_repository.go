package db

import (
	"errors"
	"time"

	"github.com/mhutchens/flaretrack/internal/models"
	"gorm.io/gorm"
)

type DailyRecordRepository struct {
	database *gorm.DB
}

func NewDailyRecordRepository(database *gorm.DB) *DailyRecordRepository {
	return &DailyRecordRepository{database: database}
}

// FetchDailyRecords returns the user's records in [from, to) ordered by date,
// with all child entries populated. The engine reads every entry field, so
// records are always loaded complete, never lazily.
func (repo *DailyRecordRepository) FetchDailyRecords(userID uint, from time.Time, to time.Time) ([]models.DailyRecord, error) {
	records := make([]models.DailyRecord, 0)
	if err := repo.database.
		Preload("Symptoms").
		Preload("Foods").
		Preload("Exercises").
		Preload("Activities").
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *DailyRecordRepository) FindByUserAndDate(userID uint, day time.Time) (models.DailyRecord, bool, error) {
	record := models.DailyRecord{}
	result := repo.database.
		Preload("Symptoms").
		Preload("Foods").
		Preload("Exercises").
		Preload("Activities").
		Where("user_id = ? AND date = ?", userID, day).
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return models.DailyRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DailyRecord{}, false, nil
	}
	return record, true, nil
}

// EnsureRecord returns the record for the given day, creating an empty one on
// the first log of any kind for that day.
func (repo *DailyRecordRepository) EnsureRecord(userID uint, day time.Time) (models.DailyRecord, error) {
	record := models.DailyRecord{}
	err := repo.database.
		Where("user_id = ? AND date = ?", userID, day).
		First(&record).Error
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DailyRecord{}, err
	}

	record = models.DailyRecord{UserID: userID, Date: day}
	if err := repo.database.Create(&record).Error; err != nil {
		return models.DailyRecord{}, err
	}
	return record, nil
}

func (repo *DailyRecordRepository) UpdateSleepHours(recordID uint, sleepHours *float64) error {
	return repo.database.
		Model(&models.DailyRecord{}).
		Where("id = ?", recordID).
		Update("sleep_hours", sleepHours).Error
}

func (repo *DailyRecordRepository) AddSymptom(entry *models.SymptomEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *DailyRecordRepository) AddFood(entry *models.FoodEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *DailyRecordRepository) AddExercise(entry *models.ExerciseEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *DailyRecordRepository) AddActivity(entry *models.ActivityEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *DailyRecordRepository) DeleteByUserAndDate(userID uint, day time.Time) error {
	return repo.database.
		Where("user_id = ? AND date = ?", userID, day).
		Delete(&models.DailyRecord{}).Error
}
