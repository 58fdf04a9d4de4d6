package config

import (
	"time"

	"golang-finance-insight/pkg/config"
)

// Scheduler holds scheduler-specific configuration.
type Scheduler struct {
	// RefreshCron is a standard five-field cron expression, descriptors such as @hourly are accepted.
	RefreshCron  string        `mapstructure:"refresh_cron"`
	RefreshAfter time.Duration `mapstructure:"refresh_after"`
	BatchSize    int           `mapstructure:"batch_size"`
	RunTimeout   time.Duration `mapstructure:"run_timeout"`
}

// Config holds the full configuration for the scheduler service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
}

func setDefaults() {
	config.SetDefault("api.port", 8081)
	config.SetDefault("scheduler.refresh_cron", "0 */6 * * *")
	config.SetDefault("scheduler.refresh_after", 24*time.Hour)
	config.SetDefault("scheduler.batch_size", 50)
	config.SetDefault("scheduler.run_timeout", 2*time.Minute)
}

// Load loads the scheduler configuration from the given path.
func Load(path string) (*Config, error) {
	setDefaults()
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
