package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"dispatch/internal/domain"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Pricing  PricingConfig
	// ZonesFile is the path of the zone configuration document. Empty
	// means no zones; every estimate falls back to the default tariff.
	ZonesFile string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// PricingConfig holds the default tariff used when a pickup matches no
// zone. A zones file with a default_tariff section overrides it.
type PricingConfig struct {
	BaseFare  float64
	PerKm     float64
	PerMinute float64
}

// Tariff returns the default tariff as a domain value.
func (p PricingConfig) Tariff() domain.Tariff {
	return domain.Tariff{Base: p.BaseFare, PerKm: p.PerKm, PerMinute: p.PerMinute}
}

// Load loads configuration from environment variables.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 10*time.Second)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NEW_RELIC_APP_NAME", "dispatch-core")
	v.SetDefault("NEW_RELIC_LICENSE_KEY", "")
	v.SetDefault("NEW_RELIC_ENABLED", false)
	v.SetDefault("DEFAULT_BASE_FARE", 0.0)
	v.SetDefault("DEFAULT_PER_KM", 0.0)
	v.SetDefault("DEFAULT_PER_MINUTE", 0.0)
	v.SetDefault("ZONES_FILE", "")

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NewRelic: NewRelicConfig{
			AppName:    v.GetString("NEW_RELIC_APP_NAME"),
			LicenseKey: v.GetString("NEW_RELIC_LICENSE_KEY"),
			Enabled:    v.GetBool("NEW_RELIC_ENABLED"),
		},
		Pricing: PricingConfig{
			BaseFare:  v.GetFloat64("DEFAULT_BASE_FARE"),
			PerKm:     v.GetFloat64("DEFAULT_PER_KM"),
			PerMinute: v.GetFloat64("DEFAULT_PER_MINUTE"),
		},
		ZonesFile: v.GetString("ZONES_FILE"),
	}
}

// errZone prefixes zone configuration problems with the zone index.
func errZone(i int, format string, args ...any) error {
	return fmt.Errorf("zone %d: %s", i, fmt.Sprintf(format, args...))
}
