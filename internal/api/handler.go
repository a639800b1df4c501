package api

import (
	"time"

	"github.com/mhutchens/flaretrack/internal/db"
	"github.com/mhutchens/flaretrack/internal/services"
	"go.uber.org/zap"
)

type Handler struct {
	repos        *db.Repositories
	correlations *services.CorrelationService
	risk         *services.RiskService
	debouncer    *services.Debouncer
	cfg          services.EngineConfig
	secretKey    []byte
	cookieSecure bool
	location     *time.Location
	log          *zap.Logger
}

type Options struct {
	Repos             *db.Repositories
	Correlations      *services.CorrelationService
	Risk              *services.RiskService
	EngineConfig      services.EngineConfig
	SecretKey         string
	CookieSecure      bool
	Location          *time.Location
	Logger            *zap.Logger
	RecomputeDebounce time.Duration
}

func NewHandler(opts Options) *Handler {
	location := opts.Location
	if location == nil {
		location = time.UTC
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.RecomputeDebounce
	if debounce <= 0 {
		debounce = 750 * time.Millisecond
	}

	return &Handler{
		repos:        opts.Repos,
		correlations: opts.Correlations,
		risk:         opts.Risk,
		debouncer:    services.NewDebouncer(debounce),
		cfg:          opts.EngineConfig,
		secretKey:    []byte(opts.SecretKey),
		cookieSecure: opts.CookieSecure,
		location:     location,
		log:          logger,
	}
}

// Close stops pending background recomputations.
func (handler *Handler) Close() {
	handler.debouncer.Stop()
}
