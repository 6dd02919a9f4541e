package config

import (
	"time"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Search    SearchConfig    `mapstructure:"search"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Maps      MapsConfig      `mapstructure:"maps"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	IdleTimeout     int `mapstructure:"idle_timeout"`     // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SearchConfig tunes the aggregator and the result cache.
type SearchConfig struct {
	Timeout         int `mapstructure:"timeout"` // milliseconds
	BestDealsLimit  int `mapstructure:"best_deals_limit"`
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MapsConfig configures the Google Maps distance lookups used for cab fares.
// An empty APIKey disables them.
type MapsConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// ProviderConfig holds the credentials and endpoint of one vendor.
type ProviderConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIKey      string `mapstructure:"api_key"`
	APISecret   string `mapstructure:"api_secret"`
	Environment string `mapstructure:"environment"` // production or sandbox
	BaseURL     string `mapstructure:"base_url"`    // overrides Environment
	Timeout     int    `mapstructure:"timeout"`     // milliseconds
}

type ProvidersConfig struct {
	MakeMyTrip ProviderConfig `mapstructure:"makemytrip"`
	Cleartrip  ProviderConfig `mapstructure:"cleartrip"`
	EaseMyTrip ProviderConfig `mapstructure:"easemytrip"`
	Indigo     ProviderConfig `mapstructure:"indigo"`
	Riya       ProviderConfig `mapstructure:"riya"`
	Savaari    ProviderConfig `mapstructure:"savaari"`
}

// Duration converts a millisecond setting.
func Duration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
