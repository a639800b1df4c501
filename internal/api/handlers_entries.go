package api

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mhutchens/flaretrack/internal/models"
	"go.uber.org/zap"
)

type symptomPayload struct {
	Name         string `json:"name"`
	Severity     int    `json:"severity"`
	OccurredAt   string `json:"occurred_at"`
	BodyLocation string `json:"body_location"`
	DurationMin  *int   `json:"duration_min"`
	Notes        string `json:"notes"`
}

type foodPayload struct {
	Name         string `json:"name"`
	MealCategory string `json:"meal_category"`
	OccurredAt   string `json:"occurred_at"`
	Quantity     string `json:"quantity"`
	Notes        string `json:"notes"`
}

type exercisePayload struct {
	Type        string `json:"type"`
	DurationMin int    `json:"duration_min"`
	Intensity   int    `json:"intensity"`
	OccurredAt  string `json:"occurred_at"`
}

type activityPayload struct {
	Type        string `json:"type"`
	DurationMin *int   `json:"duration_min"`
	StressLevel *int   `json:"stress_level"`
	OccurredAt  string `json:"occurred_at"`
}

type sleepPayload struct {
	SleepHours *float64 `json:"sleep_hours"`
}

// afterLogWrite invalidates the user's cached results and debounce-schedules
// a background recomputation plus prediction reconciliation, so bursts of
// writes settle into a single run off the interactive path.
func (handler *Handler) afterLogWrite(userID uint) {
	handler.correlations.Invalidate(userID)
	handler.debouncer.Trigger(userID, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := handler.correlations.ComputeCorrelations(ctx, userID, 0); err != nil {
			handler.log.Debug("background recompute skipped",
				zap.Uint("user_id", userID), zap.Error(err))
		}
		if err := handler.risk.ReconcilePredictions(userID); err != nil {
			handler.log.Warn("prediction reconciliation failed",
				zap.Uint("user_id", userID), zap.Error(err))
		}
	})
}

func (handler *Handler) AddSymptom(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDayParam(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := symptomPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return apiError(c, fiber.StatusBadRequest, "symptom name is required")
	}
	if payload.Severity < 1 || payload.Severity > 10 {
		return apiError(c, fiber.StatusBadRequest, "severity must be between 1 and 10")
	}
	occurredAt, err := handler.parseOccurredAt(payload.OccurredAt, day)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid occurred_at")
	}

	record, err := handler.repos.DailyRecords.EnsureRecord(user.ID, day)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load day")
	}

	entry := models.SymptomEntry{
		DailyRecordID: record.ID,
		Name:          strings.TrimSpace(payload.Name),
		Severity:      payload.Severity,
		OccurredAt:    occurredAt,
		BodyLocation:  strings.TrimSpace(payload.BodyLocation),
		DurationMin:   payload.DurationMin,
		Notes:         payload.Notes,
	}
	if err := handler.repos.DailyRecords.AddSymptom(&entry); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save symptom")
	}

	handler.afterLogWrite(user.ID)
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) AddFood(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDayParam(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := foodPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return apiError(c, fiber.StatusBadRequest, "food name is required")
	}
	if !models.ValidMealCategory(payload.MealCategory) {
		return apiError(c, fiber.StatusBadRequest, "invalid meal category")
	}
	occurredAt, err := handler.parseOccurredAt(payload.OccurredAt, day)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid occurred_at")
	}

	record, err := handler.repos.DailyRecords.EnsureRecord(user.ID, day)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load day")
	}

	entry := models.FoodEntry{
		DailyRecordID: record.ID,
		Name:          strings.TrimSpace(payload.Name),
		MealCategory:  payload.MealCategory,
		OccurredAt:    occurredAt,
		Quantity:      strings.TrimSpace(payload.Quantity),
		Notes:         payload.Notes,
	}
	if err := handler.repos.DailyRecords.AddFood(&entry); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save food")
	}

	handler.afterLogWrite(user.ID)
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) AddExercise(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDayParam(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := exercisePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(payload.Type) == "" {
		return apiError(c, fiber.StatusBadRequest, "exercise type is required")
	}
	if payload.DurationMin < 1 || payload.DurationMin > 480 {
		return apiError(c, fiber.StatusBadRequest, "duration must be between 1 and 480 minutes")
	}
	if payload.Intensity < 1 || payload.Intensity > 10 {
		return apiError(c, fiber.StatusBadRequest, "intensity must be between 1 and 10")
	}
	occurredAt, err := handler.parseOccurredAt(payload.OccurredAt, day)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid occurred_at")
	}

	record, err := handler.repos.DailyRecords.EnsureRecord(user.ID, day)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load day")
	}

	entry := models.ExerciseEntry{
		DailyRecordID: record.ID,
		Type:          strings.ToLower(strings.TrimSpace(payload.Type)),
		DurationMin:   payload.DurationMin,
		Intensity:     payload.Intensity,
		OccurredAt:    occurredAt,
	}
	if err := handler.repos.DailyRecords.AddExercise(&entry); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save exercise")
	}

	handler.afterLogWrite(user.ID)
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) AddActivity(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDayParam(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := activityPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if !models.ValidActivityType(payload.Type) {
		return apiError(c, fiber.StatusBadRequest, "invalid activity type")
	}
	if payload.StressLevel != nil && (*payload.StressLevel < 1 || *payload.StressLevel > 10) {
		return apiError(c, fiber.StatusBadRequest, "stress level must be between 1 and 10")
	}
	occurredAt, err := handler.parseOccurredAt(payload.OccurredAt, day)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid occurred_at")
	}

	record, err := handler.repos.DailyRecords.EnsureRecord(user.ID, day)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load day")
	}

	entry := models.ActivityEntry{
		DailyRecordID: record.ID,
		Type:          payload.Type,
		DurationMin:   payload.DurationMin,
		StressLevel:   payload.StressLevel,
		OccurredAt:    occurredAt,
	}
	if err := handler.repos.DailyRecords.AddActivity(&entry); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save activity")
	}

	handler.afterLogWrite(user.ID)
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) SetSleep(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDayParam(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := sleepPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.SleepHours != nil && (*payload.SleepHours < 0 || *payload.SleepHours > 24) {
		return apiError(c, fiber.StatusBadRequest, "sleep hours must be between 0 and 24")
	}

	record, err := handler.repos.DailyRecords.EnsureRecord(user.ID, day)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load day")
	}
	if err := handler.repos.DailyRecords.UpdateSleepHours(record.ID, payload.SleepHours); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save sleep")
	}

	handler.afterLogWrite(user.ID)
	return c.JSON(fiber.Map{"ok": true})
}

// parseOccurredAt accepts an RFC3339 timestamp or defaults to noon of the
// record's day when the client omits it.
func (handler *Handler) parseOccurredAt(raw string, day time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return day.Add(12 * time.Hour), nil
	}
	return time.ParseInLocation(time.RFC3339, strings.TrimSpace(raw), handler.location)
}
