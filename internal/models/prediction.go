package models

import "time"

const (
	RiskBandGreen  = "green"
	RiskBandYellow = "yellow"
	RiskBandRed    = "red"
)

// PredictionRecord stores one next-day risk prediction so it can later be
// compared against the realized flare label for that date.
type PredictionRecord struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;uniqueIndex:uidx_prediction_user_date"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uidx_prediction_user_date"`
	Score       int       `gorm:"not null"`
	Band        string    `gorm:"not null"`
	PredictedAt time.Time `gorm:"not null"`
	ActualFlare *bool
	Correct     *bool
}
