package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

type ServerConfig struct {
	Port     string `mapstructure:"port"`
	Timezone string `mapstructure:"timezone"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SecretKey    string `mapstructure:"secret_key"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	Mode       string `mapstructure:"mode"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// EngineConfig carries every tunable constant of the correlation engine.
// Defaults match the documented analysis rules; they are knobs, not laws.
type EngineConfig struct {
	FlareThreshold         float64 `mapstructure:"flare_threshold"`
	MinFlareDays           int     `mapstructure:"min_flare_days"`
	MinTotalDays           int     `mapstructure:"min_total_days"`
	MinOccurrences         int     `mapstructure:"min_occurrences"`
	SignificanceThreshold  float64 `mapstructure:"significance_threshold"`
	BaselineFloor          float64 `mapstructure:"baseline_floor"`
	FoodLookbackHours      int     `mapstructure:"food_lookback_hours"`
	ExerciseLookbackHours  int     `mapstructure:"exercise_lookback_hours"`
	ActivityLookbackHours  int     `mapstructure:"activity_lookback_hours"`
	PoorSleepHours         float64 `mapstructure:"poor_sleep_hours"`
	ExcessiveSleepHours    float64 `mapstructure:"excessive_sleep_hours"`
	HighStressLevel        int     `mapstructure:"high_stress_level"`
	HighIntensityThreshold int     `mapstructure:"high_intensity_threshold"`
	DefaultWindowDays      int     `mapstructure:"default_window_days"`
	RecomputeDebounceMS    int     `mapstructure:"recompute_debounce_ms"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timezone", "UTC")

	v.SetDefault("database.path", "data/flaretrack.db")

	v.SetDefault("auth.secret_key", "change_me_in_production")
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.mode", "dev")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 7)
	v.SetDefault("logging.compress", true)

	v.SetDefault("engine.flare_threshold", 7.0)
	v.SetDefault("engine.min_flare_days", 3)
	v.SetDefault("engine.min_total_days", 7)
	v.SetDefault("engine.min_occurrences", 3)
	v.SetDefault("engine.significance_threshold", 0.25)
	v.SetDefault("engine.baseline_floor", 0.1)
	v.SetDefault("engine.food_lookback_hours", 6)
	v.SetDefault("engine.exercise_lookback_hours", 24)
	v.SetDefault("engine.activity_lookback_hours", 24)
	v.SetDefault("engine.poor_sleep_hours", 6.0)
	v.SetDefault("engine.excessive_sleep_hours", 10.0)
	v.SetDefault("engine.high_stress_level", 8)
	v.SetDefault("engine.high_intensity_threshold", 7)
	v.SetDefault("engine.default_window_days", 30)
	v.SetDefault("engine.recompute_debounce_ms", 750)
}

// Load reads configuration from config/config.yaml (optional) and the
// FLARETRACK_* environment, with defaults for everything.
func Load(configDir string, log *zap.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("FLARETRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		log.Info("no config file found, using defaults and environment")
	} else {
		log.Info("loaded config file", zap.String("file", v.ConfigFileUsed()))
		v.OnConfigChange(func(event fsnotify.Event) {
			log.Info("config file changed", zap.String("file", event.Name))
		})
		v.WatchConfig()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
