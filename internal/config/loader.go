package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var defaultSearchPaths = []string{"./configs", "../../configs", "."}

// Load reads configs/config.yaml (if any), the APP_ENVIRONMENT overlay and
// environment overrides. A .env file in the working directory is loaded first.
func Load() (*Config, error) {
	loadEnvFile(".env", "../../.env")
	return LoadFrom(defaultSearchPaths...)
}

// LoadFrom is Load with explicit config search paths and without .env discovery.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	_ = v.MergeInConfig() // overlay is optional

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10000)
	v.SetDefault("server.write_timeout", 30000)
	v.SetDefault("server.idle_timeout", 60000)
	v.SetDefault("server.shutdown_timeout", 10000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("search.timeout", 15000)
	v.SetDefault("search.best_deals_limit", 5)
	v.SetDefault("search.cache_ttl_seconds", 30)

	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window_seconds", 60)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("maps.api_key", "")
	v.SetDefault("maps.base_url", "")

	for _, name := range []string{"makemytrip", "cleartrip", "easemytrip", "indigo", "riya", "savaari"} {
		prefix := "providers." + name + "."
		v.SetDefault(prefix+"enabled", true)
		v.SetDefault(prefix+"api_key", "")
		v.SetDefault(prefix+"api_secret", "")
		v.SetDefault(prefix+"environment", "production")
		v.SetDefault(prefix+"base_url", "")
		v.SetDefault(prefix+"timeout", 10000)
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		s, ok := v.Get(key).(string)
		if !ok || !strings.Contains(s, "$") {
			continue
		}
		v.Set(key, os.ExpandEnv(s))
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	if cfg.Search.Timeout <= 0 {
		return fmt.Errorf("search.timeout must be positive")
	}
	if cfg.Search.BestDealsLimit <= 0 {
		return fmt.Errorf("search.best_deals_limit must be positive")
	}
	if cfg.RateLimit.Requests <= 0 || cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate_limit.requests and rate_limit.window_seconds must be positive")
	}
	if cfg.Redis.Enabled && cfg.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when redis is enabled")
	}

	vendors := map[string]ProviderConfig{
		"makemytrip": cfg.Providers.MakeMyTrip,
		"cleartrip":  cfg.Providers.Cleartrip,
		"easemytrip": cfg.Providers.EaseMyTrip,
		"indigo":     cfg.Providers.Indigo,
		"riya":       cfg.Providers.Riya,
		"savaari":    cfg.Providers.Savaari,
	}
	for name, p := range vendors {
		switch p.Environment {
		case "production", "sandbox":
		default:
			return fmt.Errorf("providers.%s.environment must be production or sandbox, got %q", name, p.Environment)
		}
		if p.Timeout <= 0 {
			return fmt.Errorf("providers.%s.timeout must be positive", name)
		}
	}
	return nil
}
