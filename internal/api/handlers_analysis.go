package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mhutchens/flaretrack/internal/services"
)

func (handler *Handler) GetCorrelations(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	windowDays, err := parseWindowQuery(c.Query("window"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid window")
	}

	set, err := handler.correlations.ComputeCorrelations(c.UserContext(), user.ID, windowDays)
	if err != nil {
		return handler.respondAnalysisError(c, err)
	}
	return c.JSON(set)
}

func (handler *Handler) RefreshCorrelations(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	windowDays, err := parseWindowQuery(c.Query("window"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid window")
	}

	set, err := handler.correlations.Refresh(c.UserContext(), user.ID, windowDays)
	if err != nil {
		return handler.respondAnalysisError(c, err)
	}
	return c.JSON(set)
}

func (handler *Handler) GetLastCalculated(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	windowDays, err := parseWindowQuery(c.Query("window"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid window")
	}

	calculatedAt, ok := handler.correlations.LastCalculated(user.ID, windowDays)
	if !ok {
		return c.JSON(fiber.Map{"last_calculated": nil})
	}
	return c.JSON(fiber.Map{"last_calculated": calculatedAt.Format(time.RFC3339)})
}

func (handler *Handler) GetRiskToday(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	score, err := handler.risk.PredictRiskForToday(c.UserContext(), user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to predict risk")
	}
	return c.JSON(score)
}

func (handler *Handler) GetRiskAccuracy(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.risk.ReconcilePredictions(user.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to reconcile predictions")
	}

	accuracy, err := handler.risk.Accuracy(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to compute accuracy")
	}
	return c.JSON(accuracy)
}

func (handler *Handler) respondAnalysisError(c *fiber.Ctx, err error) error {
	var insufficient *services.InsufficientDataError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":       "insufficient_data",
			"flare_days":  insufficient.FlareDays,
			"logged_days": insufficient.TotalDays,
			"message":     "keep tracking: not enough logged days to find patterns yet",
		})
	}
	return apiError(c, fiber.StatusInternalServerError, "analysis failed")
}

func parseWindowQuery(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	windowDays, err := strconv.Atoi(raw)
	if err != nil || windowDays < 1 || windowDays > 365 {
		return 0, errors.New("invalid window")
	}
	return windowDays, nil
}
