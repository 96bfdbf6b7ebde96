// Package config loads runtime settings from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppPort     string
	DBDriver    string
	DatabaseDSN string
	JWTSecret   string
	RabbitMQURL string
	RedisAddr   string
	LogLevel    string
	SeedOnStart bool

	FreeShippingThreshold int64
	DeliveryFee           int64
	PointsUnit            int64
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:sweetspro.db?cache=shared")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("FREE_SHIPPING_THRESHOLD", 10000)
	v.SetDefault("DELIVERY_FEE", 800)
	v.SetDefault("POINTS_UNIT", 100)
}

// Load reads configuration from environment variables, falling back to a
// config.yaml in the working directory or at $SWEETSPRO_CONFIG.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("SWEETSPRO_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:               v.GetString("APP_PORT"),
		DBDriver:              v.GetString("DB_DRIVER"),
		DatabaseDSN:           v.GetString("DATABASE_DSN"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		RabbitMQURL:           v.GetString("RABBITMQ_URL"),
		RedisAddr:             v.GetString("REDIS_ADDR"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		SeedOnStart:           v.GetBool("SEED_ON_START"),
		FreeShippingThreshold: v.GetInt64("FREE_SHIPPING_THRESHOLD"),
		DeliveryFee:           v.GetInt64("DELIVERY_FEE"),
		PointsUnit:            v.GetInt64("POINTS_UNIT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.FreeShippingThreshold < 0 || c.DeliveryFee < 0 {
		return errors.New("FREE_SHIPPING_THRESHOLD and DELIVERY_FEE must not be negative")
	}
	if c.PointsUnit <= 0 {
		return errors.New("POINTS_UNIT must be positive")
	}
	return nil
}
