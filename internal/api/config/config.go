package config

import (
	"time"

	"golang-finance-insight/internal/recommender"
	"golang-finance-insight/pkg/config"
)

// Catalog configures the product catalog cache.
type Catalog struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Analysis controls how triggered runs are executed. SyncAnalysis runs the
// pipeline inside the request instead of dispatching it to the stream, and
// RunningStaleAfter lets a trigger take over a run marked running for too long.
type Analysis struct {
	SyncAnalysis      bool          `mapstructure:"sync_analysis"`
	SyncTimeout       time.Duration `mapstructure:"sync_timeout"`
	RunningStaleAfter time.Duration `mapstructure:"running_stale_after"`
	ExecutorConfig    string        `mapstructure:"executor_config"`
	CommentsLimit     int           `mapstructure:"comments_limit"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App            config.App         `mapstructure:"app"`
	Logger         config.Logger      `mapstructure:"logger"`
	Database       config.Database    `mapstructure:"database"`
	Redis          config.Redis       `mapstructure:"redis"`
	API            config.API         `mapstructure:"api"`
	Recommendation recommender.Config `mapstructure:"recommendation"`
	Catalog        Catalog            `mapstructure:"catalog"`
	Analysis       Analysis           `mapstructure:"analysis"`
}

func setDefaults() {
	def := recommender.DefaultConfig()
	config.SetDefault("api.port", 8080)
	config.SetDefault("recommendation.default_top_n", def.DefaultTopN)
	config.SetDefault("recommendation.max_top_n", def.MaxTopN)
	config.SetDefault("recommendation.noise_floor", def.NoiseFloor)
	config.SetDefault("recommendation.fallback_multiplier", def.FallbackMultiplier)
	config.SetDefault("catalog.cache_ttl", 5*time.Minute)
	config.SetDefault("analysis.sync_timeout", 5*time.Minute)
	config.SetDefault("analysis.running_stale_after", 30*time.Minute)
	config.SetDefault("analysis.executor_config", "configs/config-executor.yaml")
	config.SetDefault("analysis.comments_limit", 100)
}

// Load loads the API configuration from the given path.
func Load(path string) (*Config, error) {
	setDefaults()
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
