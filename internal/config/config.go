// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Catalog sources.
const (
	SourceHTTP     = "http"
	SourceDatabase = "database"
	SourceMemory   = "memory"
)

// Config holds every setting of the service.
type Config struct {
	AppPort        string        `mapstructure:"APP_PORT" validate:"required"`
	CatalogSource  string        `mapstructure:"CATALOG_SOURCE" validate:"oneof=http database memory"`
	CatalogURL     string        `mapstructure:"CATALOG_URL" validate:"required,url"`
	CatalogTimeout time.Duration `mapstructure:"CATALOG_TIMEOUT" validate:"gt=0"`
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER" validate:"oneof=sqlite postgres"`
	DatabaseDSN    string        `mapstructure:"DATABASE_DSN" validate:"required"`
	RabbitMQURL    string        `mapstructure:"RABBITMQ_URL" validate:"omitempty,url"`
	RabbitMQQueue  string        `mapstructure:"RABBITMQ_QUEUE" validate:"required"`
	LogLevel       string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat      string        `mapstructure:"LOG_FORMAT" validate:"oneof=json console"`
}

var keys = []string{
	"APP_PORT",
	"CATALOG_SOURCE",
	"CATALOG_URL",
	"CATALOG_TIMEOUT",
	"DATABASE_DRIVER",
	"DATABASE_DSN",
	"RABBITMQ_URL",
	"RABBITMQ_QUEUE",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// Load reads the configuration from environment variables on top of the
// defaults and validates it. An empty RABBITMQ_URL disables order events.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("CATALOG_SOURCE", SourceHTTP)
	v.SetDefault("CATALOG_URL", "https://dummyjson.com/products?limit=30")
	v.SetDefault("CATALOG_TIMEOUT", 10*time.Second)
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "kasir.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "order_queue")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.AutomaticEnv()

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
