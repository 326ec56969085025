package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the hint engine service.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	DatabaseURL    string
	SQLitePath     string
	RedisURL       string
	APIKey         string
	JWTSecret      string
	Epsilon        float64
	CatalogPath    string
	ReportCacheTTL time.Duration
	RateLimitMax   int
	RateLimitTTL   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// UsesPostgres reports whether a Postgres DSN was configured. Without one the
// service falls back to the embedded SQLite store.
func (c Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HINT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Hint Engine API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("sqlite.path", "data/hint_engine.sqlite")
	v.SetDefault("selector.epsilon", 0.15)
	v.SetDefault("report.cache_ttl", "1m")
	v.SetDefault("rate_limit.max", 30)
	v.SetDefault("rate_limit.window", "1m")

	ttlString := v.GetString("report.cache_ttl")
	if ttlString == "" {
		ttlString = "1m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid report cache ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("rate_limit.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		AppPort:        v.GetString("app.port"),
		DatabaseURL:    v.GetString("database.url"),
		SQLitePath:     v.GetString("sqlite.path"),
		RedisURL:       v.GetString("redis.url"),
		APIKey:         strings.TrimSpace(v.GetString("api.key")),
		JWTSecret:      v.GetString("jwt.secret"),
		Epsilon:        v.GetFloat64("selector.epsilon"),
		CatalogPath:    v.GetString("catalog.path"),
		ReportCacheTTL: ttl,
		RateLimitMax:   v.GetInt("rate_limit.max"),
		RateLimitTTL:   rateWindow,
	}

	if cfg.Epsilon < 0 || cfg.Epsilon > 1 {
		return Config{}, fmt.Errorf("selector epsilon must be within [0, 1], got %v", cfg.Epsilon)
	}

	return cfg, nil
}
