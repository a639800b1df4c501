package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mhutchens/flaretrack/internal/api"
	"github.com/mhutchens/flaretrack/internal/config"
	"github.com/mhutchens/flaretrack/internal/db"
	"github.com/mhutchens/flaretrack/internal/logging"
	"github.com/mhutchens/flaretrack/internal/services"
	"go.uber.org/zap"
)

func main() {
	bootstrap, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("bootstrap logger failed: %v", err)
	}

	cfg, err := config.Load("config", bootstrap)
	if err != nil {
		bootstrap.Fatal("config load failed", zap.Error(err))
	}
	_ = bootstrap.Sync()

	logger, err := logging.New(logging.Options{
		Directory:  cfg.Logging.Directory,
		Mode:       cfg.Logging.Mode,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	location := mustLoadLocation(cfg.Server.Timezone, logger)
	time.Local = location

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	repos := db.NewRepositories(database)
	engineCfg := engineConfig(cfg.Engine)

	correlations := services.NewCorrelationService(repos.DailyRecords, engineCfg, location, logger)
	risk := services.NewRiskService(repos.DailyRecords, repos.Predictions, correlations, engineCfg, location, logger)

	handler := api.NewHandler(api.Options{
		Repos:             repos,
		Correlations:      correlations,
		Risk:              risk,
		EngineConfig:      engineCfg,
		SecretKey:         cfg.Auth.SecretKey,
		CookieSecure:      cfg.Auth.CookieSecure,
		Location:          location,
		Logger:            logger,
		RecomputeDebounce: time.Duration(cfg.Engine.RecomputeDebounceMS) * time.Millisecond,
	})
	defer handler.Close()

	app := fiber.New(fiber.Config{
		AppName:               "FlareTrack",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("flaretrack listening",
		zap.String("addr", "0.0.0.0:"+cfg.Server.Port),
		zap.String("db", cfg.Database.Path),
		zap.String("tz", location.String()))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func engineConfig(cfg config.EngineConfig) services.EngineConfig {
	engine := services.DefaultEngineConfig()
	engine.FlareThreshold = cfg.FlareThreshold
	engine.MinFlareDays = cfg.MinFlareDays
	engine.MinTotalDays = cfg.MinTotalDays
	engine.MinOccurrences = cfg.MinOccurrences
	engine.SignificanceThreshold = cfg.SignificanceThreshold
	engine.BaselineFloor = cfg.BaselineFloor
	engine.FoodLookback = time.Duration(cfg.FoodLookbackHours) * time.Hour
	engine.ExerciseLookback = time.Duration(cfg.ExerciseLookbackHours) * time.Hour
	engine.ActivityLookback = time.Duration(cfg.ActivityLookbackHours) * time.Hour
	engine.PoorSleepHours = cfg.PoorSleepHours
	engine.ExcessiveSleepHours = cfg.ExcessiveSleepHours
	engine.HighStressLevel = cfg.HighStressLevel
	engine.HighIntensityThreshold = cfg.HighIntensityThreshold
	engine.DefaultWindowDays = cfg.DefaultWindowDays
	return engine
}

func mustLoadLocation(name string, logger *zap.Logger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("invalid timezone, falling back to UTC", zap.String("tz", name))
		return time.UTC
	}
	return location
}
