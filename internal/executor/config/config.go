package config

import (
	"time"

	"golang-finance-insight/pkg/config"
)

// Executor holds executor-specific configuration.
type Executor struct {
	AnalysisTimeout         time.Duration `mapstructure:"analysis_timeout"`
	AnalysisRetryInterval   time.Duration `mapstructure:"analysis_retry_interval"`
	AnalysisMaxIdleDuration time.Duration `mapstructure:"analysis_max_idle_duration"`
	AnalysisMaxRetry        int           `mapstructure:"analysis_max_retry"`
}

// Pipeline holds the per-stage limits of a sentiment run.
type Pipeline struct {
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	ClassifyTimeout  time.Duration `mapstructure:"classify_timeout"`
	SummarizeTimeout time.Duration `mapstructure:"summarize_timeout"`
	LockTTL          time.Duration `mapstructure:"lock_ttl"`
	SummaryMaxChars  int           `mapstructure:"summary_max_chars"`
	ErrorMaxChars    int           `mapstructure:"error_max_chars"`
	NotifyOnSuccess  bool          `mapstructure:"notify_on_success"`
}

// Classifier tunes the generative fallback tier.
type Classifier struct {
	BatchSize      int `mapstructure:"batch_size"`
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// OpenAI holds the configuration for an OpenAI compatible chat-completions API.
type OpenAI struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// CommentSource selects and configures where community comments come from.
type CommentSource struct {
	Provider        string        `mapstructure:"provider"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	MaxComments     int           `mapstructure:"max_comments"`
	ResolveCacheTTL time.Duration `mapstructure:"resolve_cache_ttl"`
	HTML            HTMLSource    `mapstructure:"html"`
	RSS             RSSSource     `mapstructure:"rss"`
}

// HTMLSource configures the community page scraper.
type HTMLSource struct {
	SearchURL       string `mapstructure:"search_url"`
	CommunityURL    string `mapstructure:"community_url"`
	ResultSelector  string `mapstructure:"result_selector"`
	NameSelector    string `mapstructure:"name_selector"`
	CommentSelector string `mapstructure:"comment_selector"`
	AuthorSelector  string `mapstructure:"author_selector"`
	ContentSelector string `mapstructure:"content_selector"`
	LikesSelector   string `mapstructure:"likes_selector"`
	TimeSelector    string `mapstructure:"time_selector"`
}

// RSSSource configures the discussion feed reader.
type RSSSource struct {
	FeedURL string `mapstructure:"feed_url"`
}

// Config holds the full configuration for the executor service.
type Config struct {
	App           config.App      `mapstructure:"app"`
	Logger        config.Logger   `mapstructure:"logger"`
	Database      config.Database `mapstructure:"database"`
	Redis         config.Redis    `mapstructure:"redis"`
	Telegram      config.Telegram `mapstructure:"telegram"`
	Executor      Executor        `mapstructure:"executor"`
	Pipeline      Pipeline        `mapstructure:"pipeline"`
	Classifier    Classifier      `mapstructure:"classifier"`
	Gemini        Gemini          `mapstructure:"gemini"`
	OpenAI        OpenAI          `mapstructure:"openai"`
	AI            AI              `mapstructure:"ai"`
	CommentSource CommentSource   `mapstructure:"comment_source"`
}

func setDefaults() {
	config.SetDefault("executor.analysis_timeout", 5*time.Minute)
	config.SetDefault("executor.analysis_retry_interval", time.Minute)
	config.SetDefault("executor.analysis_max_idle_duration", 10*time.Minute)
	config.SetDefault("executor.analysis_max_retry", 3)
	config.SetDefault("pipeline.fetch_timeout", time.Minute)
	config.SetDefault("pipeline.classify_timeout", 90*time.Second)
	config.SetDefault("pipeline.summarize_timeout", 90*time.Second)
	config.SetDefault("pipeline.lock_ttl", 10*time.Minute)
	config.SetDefault("pipeline.summary_max_chars", 12000)
	config.SetDefault("pipeline.error_max_chars", 500)
	config.SetDefault("classifier.batch_size", 20)
	config.SetDefault("classifier.max_concurrency", 2)
	config.SetDefault("ai.provider", "gemini")
	config.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	config.SetDefault("gemini.max_request_per_minute", 15)
	config.SetDefault("gemini.max_token_per_minute", 250000)
	config.SetDefault("openai.base_url", "https://api.openai.com/v1/chat/completions")
	config.SetDefault("openai.max_request_per_minute", 60)
	config.SetDefault("openai.max_token_per_minute", 200000)
	config.SetDefault("comment_source.provider", "html")
	config.SetDefault("comment_source.request_timeout", 30*time.Second)
	config.SetDefault("comment_source.max_comments", 100)
	config.SetDefault("comment_source.resolve_cache_ttl", 24*time.Hour)
}

// Load loads the executor configuration from the given path.
func Load(path string) (*Config, error) {
	setDefaults()
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
