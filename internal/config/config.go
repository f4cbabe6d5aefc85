package config

import "time"

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
	LoginURL  string `mapstructure:"login_url"`  // where unauthenticated actions send the user
}

// APIConfig controls the backend API client.
type APIConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	Timeout   string  `mapstructure:"timeout"`    // duration string, e.g., "10s"
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second, 0 disables
	Burst     int     `mapstructure:"burst"`
}

// AuthConfig controls the authentication provider.
type AuthConfig struct {
	BaseURL string `mapstructure:"base_url"` // e.g., https://<project>.supabase.co/auth/v1
	APIKey  string `mapstructure:"api_key"`  // public anon key
}

// StoreConfig selects the device key-value store.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // file or redis
	Path   string `mapstructure:"path"`   // file driver only
	Prefix string `mapstructure:"prefix"` // redis key prefix
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FeedConfig controls home page composition.
type FeedConfig struct {
	Categories     []string `mapstructure:"categories"`
	PageSize       int      `mapstructure:"page_size"`
	TrendingLimit  int      `mapstructure:"trending_limit"`
	SectionPreview int      `mapstructure:"section_preview"`
}

// PollerConfig holds the fixed polling intervals.
type PollerConfig struct {
	Notifications string `mapstructure:"notifications"` // duration string
	Comments      string `mapstructure:"comments"`
	AdminLogs     string `mapstructure:"admin_logs"`
	AdminLogLines int    `mapstructure:"admin_log_lines"`
}

// OpenAIConfig enables the optional digest preface.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// DigestConfig controls markdown digest export.
type DigestConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Title     string `mapstructure:"title"` // supports {.CurrentDate}
	Language  string `mapstructure:"language"`
}

// MetricsConfig controls the prometheus endpoint of long-running commands.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config is the top-level configuration structure.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Store   StoreConfig   `mapstructure:"store"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Pollers PollerConfig  `mapstructure:"pollers"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Digest  DigestConfig  `mapstructure:"digest"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.App.LoginURL == "" {
		c.App.LoginURL = "/login"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://127.0.0.1:8000/api/v1"
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "10s"
	}
	if c.API.Burst <= 0 {
		c.API.Burst = 4
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "file"
	}
	if c.Store.Path == "" {
		c.Store.Path = "$HOME/.config/synapse-digest/device.json"
	}
	if c.Store.Prefix == "" {
		c.Store.Prefix = "synapse:device"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if len(c.Feed.Categories) == 0 {
		c.Feed.Categories = []string{"ai", "cs", "se", "research"}
	}
	if c.Feed.PageSize == 0 {
		c.Feed.PageSize = 50
	}
	if c.Feed.TrendingLimit == 0 {
		c.Feed.TrendingLimit = 6
	}
	if c.Feed.SectionPreview == 0 {
		c.Feed.SectionPreview = 3
	}
	if c.Pollers.Notifications == "" {
		c.Pollers.Notifications = "60s"
	}
	if c.Pollers.Comments == "" {
		c.Pollers.Comments = "30s"
	}
	if c.Pollers.AdminLogs == "" {
		c.Pollers.AdminLogs = "5s"
	}
	if c.Pollers.AdminLogLines == 0 {
		c.Pollers.AdminLogLines = 200
	}
	if c.Digest.OutputDir == "" {
		c.Digest.OutputDir = "./out"
	}
	if c.Digest.Title == "" {
		c.Digest.Title = "SynapseDigest {.CurrentDate}"
	}
}

// Duration parses a duration string, falling back when it is empty or invalid.
func Duration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
