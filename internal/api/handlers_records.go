package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mhutchens/flaretrack/internal/services"
)

func parseDayParam(raw string, location *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, location)
}

func (handler *Handler) GetRecords(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := time.Now().In(handler.location)
	to := services.DateAtLocation(now, handler.location).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -handler.cfg.DefaultWindowDays)

	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDayParam(raw, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid from date")
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := parseDayParam(raw, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid to date")
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return apiError(c, fiber.StatusBadRequest, "invalid date range")
	}

	records, err := handler.repos.DailyRecords.FetchDailyRecords(user.ID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch records")
	}
	return c.JSON(fiber.Map{"records": records})
}

func (handler *Handler) GetRecord(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDayParam(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	record, found, err := handler.repos.DailyRecords.FindByUserAndDate(user.ID, day)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch record")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "no record for date")
	}
	return c.JSON(record)
}

func (handler *Handler) DeleteRecord(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDayParam(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	if err := handler.repos.DailyRecords.DeleteByUserAndDate(user.ID, day); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete record")
	}

	handler.afterLogWrite(user.ID)
	return c.JSON(fiber.Map{"ok": true})
}
