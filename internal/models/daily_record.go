package models

import "time"

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

const (
	ExerciseRunning  = "running"
	ExerciseWalking  = "walking"
	ExerciseCycling  = "cycling"
	ExerciseSwimming = "swimming"
	ExerciseStrength = "strength"
	ExerciseYoga     = "yoga"
	ExerciseOther    = "other"
)

const (
	ActivityWork   = "work"
	ActivitySocial = "social"
	ActivityTravel = "travel"
	ActivityChores = "chores"
	ActivityRest   = "rest"
	ActivityOther  = "other"
)

// DailyRecord is the per-user, per-calendar-day aggregate. It is created on the
// first log of any kind for that day and owns all entries logged for it.
type DailyRecord struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;uniqueIndex:uidx_user_date"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uidx_user_date"`
	SleepHours *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Symptoms   []SymptomEntry  `gorm:"foreignKey:DailyRecordID;constraint:OnDelete:CASCADE"`
	Foods      []FoodEntry     `gorm:"foreignKey:DailyRecordID;constraint:OnDelete:CASCADE"`
	Exercises  []ExerciseEntry `gorm:"foreignKey:DailyRecordID;constraint:OnDelete:CASCADE"`
	Activities []ActivityEntry `gorm:"foreignKey:DailyRecordID;constraint:OnDelete:CASCADE"`
}

type SymptomEntry struct {
	ID            uint      `gorm:"primaryKey"`
	DailyRecordID uint      `gorm:"not null;index"`
	Name          string    `gorm:"not null"`
	Severity      int       `gorm:"not null"`
	OccurredAt    time.Time `gorm:"not null"`
	BodyLocation  string
	DurationMin   *int
	Notes         string
}

type FoodEntry struct {
	ID            uint      `gorm:"primaryKey"`
	DailyRecordID uint      `gorm:"not null;index"`
	Name          string    `gorm:"not null"`
	MealCategory  string    `gorm:"not null"`
	OccurredAt    time.Time `gorm:"not null"`
	Quantity      string
	Notes         string
}

type ExerciseEntry struct {
	ID            uint      `gorm:"primaryKey"`
	DailyRecordID uint      `gorm:"not null;index"`
	Type          string    `gorm:"not null"`
	DurationMin   int       `gorm:"not null"`
	Intensity     int       `gorm:"not null"`
	OccurredAt    time.Time `gorm:"not null"`
}

type ActivityEntry struct {
	ID            uint      `gorm:"primaryKey"`
	DailyRecordID uint      `gorm:"not null;index"`
	Type          string    `gorm:"not null"`
	DurationMin   *int
	StressLevel   *int
	OccurredAt    time.Time `gorm:"not null"`
}

func ValidMealCategory(category string) bool {
	switch category {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

func ValidActivityType(activityType string) bool {
	switch activityType {
	case ActivityWork, ActivitySocial, ActivityTravel, ActivityChores, ActivityRest, ActivityOther:
		return true
	}
	return false
}
