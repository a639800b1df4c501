package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	records := api.Group("/records", handler.AuthRequired)
	records.Get("", handler.GetRecords)
	records.Get("/:date", handler.GetRecord)
	records.Delete("/:date", handler.DeleteRecord)
	records.Post("/:date/symptoms", handler.AddSymptom)
	records.Post("/:date/foods", handler.AddFood)
	records.Post("/:date/exercises", handler.AddExercise)
	records.Post("/:date/activities", handler.AddActivity)
	records.Put("/:date/sleep", handler.SetSleep)

	correlations := api.Group("/correlations", handler.AuthRequired)
	correlations.Get("", handler.GetCorrelations)
	correlations.Post("/refresh", handler.RefreshCorrelations)
	correlations.Get("/last-calculated", handler.GetLastCalculated)

	risk := api.Group("/risk", handler.AuthRequired)
	risk.Get("/today", handler.GetRiskToday)
	risk.Get("/accuracy", handler.GetRiskAccuracy)
}
