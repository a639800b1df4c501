package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mhutchens/flaretrack/internal/models"
	"go.uber.org/zap"
)

// LogStore is the engine's read boundary with the application's persistence.
// Implementations must return complete records with all child entries
// populated; the engine reads every field during analysis.
type LogStore interface {
	FetchDailyRecords(userID uint, from time.Time, to time.Time) ([]models.DailyRecord, error)
}

// CorrelationResultSet is the full outcome of one analysis run.
type CorrelationResultSet struct {
	UserID            uint                `json:"user_id"`
	WindowDays        int                 `json:"window_days"`
	Results           []CorrelationResult `json:"results"`
	TotalFlareDays    int                 `json:"total_flare_days"`
	TotalBaselineDays int                 `json:"total_baseline_days"`
	WarningCount      int                 `json:"warning_count"`
	CalculatedAt      time.Time           `json:"calculated_at"`
}

type CorrelationService struct {
	store    LogStore
	cache    *ResultCache
	cfg      EngineConfig
	location *time.Location
	log      *zap.Logger
	now      func() time.Time
}

func NewCorrelationService(store LogStore, cfg EngineConfig, location *time.Location, logger *zap.Logger) *CorrelationService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CorrelationService{
		store:    store,
		cache:    NewResultCache(),
		cfg:      cfg,
		location: location,
		log:      logger,
		now:      time.Now,
	}
}

// ComputeCorrelations returns the ranked result set for the user's last
// windowDays of logs, cache-first. A hit returns the previous results with
// their original timestamp and no recomputation.
func (service *CorrelationService) ComputeCorrelations(ctx context.Context, userID uint, windowDays int) (*CorrelationResultSet, error) {
	if windowDays <= 0 {
		windowDays = service.cfg.DefaultWindowDays
	}

	if set, ok := service.cache.Get(userID, windowDays); ok {
		return set, nil
	}

	version := service.cache.BeginRun(userID)
	set, err := service.computeFresh(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}

	if !service.cache.Commit(userID, windowDays, version, set) {
		// A newer run or an invalidation superseded this one; its write is
		// discarded and the computed set is still valid for this caller.
		service.log.Debug("correlation cache write superseded",
			zap.Uint("user_id", userID),
			zap.Uint64("version", version))
	}
	return set, nil
}

// Refresh bypasses the cache: it invalidates the user's entries and computes
// a fresh result set.
func (service *CorrelationService) Refresh(ctx context.Context, userID uint, windowDays int) (*CorrelationResultSet, error) {
	service.cache.Invalidate(userID)
	return service.ComputeCorrelations(ctx, userID, windowDays)
}

func (service *CorrelationService) Invalidate(userID uint) {
	service.cache.Invalidate(userID)
}

func (service *CorrelationService) LastCalculated(userID uint, windowDays int) (time.Time, bool) {
	if windowDays <= 0 {
		windowDays = service.cfg.DefaultWindowDays
	}
	return service.cache.LastCalculated(userID, windowDays)
}

func (service *CorrelationService) computeFresh(ctx context.Context, userID uint, windowDays int) (*CorrelationResultSet, error) {
	runID := uuid.NewString()
	started := service.now()

	today := DateAtLocation(started, service.location)
	windowStart := today.AddDate(0, 0, -(windowDays - 1))
	// One extra day of history feeds cross-midnight lookbacks and prior-night
	// sleep; it is context only and never counted in the day totals.
	fetchStart := windowStart.AddDate(0, 0, -1)
	fetchEnd := today.AddDate(0, 0, 1)

	records, err := service.store.FetchDailyRecords(userID, fetchStart, fetchEnd)
	if err != nil {
		return nil, err
	}

	days, warnings := ClassifyDays(records, service.cfg)

	var contextDay *DayAnalysis
	analysisDays := make([]DayAnalysis, 0, len(days))
	for index := range days {
		if days[index].Date.Before(windowStart) {
			contextDay = &days[index]
			continue
		}
		analysisDays = append(analysisDays, days[index])
	}

	flareDays := countFlareDays(analysisDays)
	if len(analysisDays) < service.cfg.MinTotalDays || flareDays < service.cfg.MinFlareDays {
		return nil, &InsufficientDataError{FlareDays: flareDays, TotalDays: len(analysisDays)}
	}

	factors := CollectFactors(analysisDays, service.cfg)
	stats, err := AnalyzeFactors(ctx, analysisDays, contextDay, factors, service.cfg)
	if err != nil {
		return nil, err
	}
	results := RankFactors(stats, service.cfg)

	set := &CorrelationResultSet{
		UserID:            userID,
		WindowDays:        windowDays,
		Results:           results,
		TotalFlareDays:    flareDays,
		TotalBaselineDays: len(analysisDays) - flareDays,
		WarningCount:      warnings,
		CalculatedAt:      started,
	}

	service.log.Info("correlation run finished",
		zap.String("run_id", runID),
		zap.Uint("user_id", userID),
		zap.Int("window_days", windowDays),
		zap.Int("logged_days", len(analysisDays)),
		zap.Int("flare_days", flareDays),
		zap.Int("factors_tested", len(factors)),
		zap.Int("results", len(results)),
		zap.Int("warnings", warnings),
		zap.Duration("elapsed", service.now().Sub(started)))

	return set, nil
}
