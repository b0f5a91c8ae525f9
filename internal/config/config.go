package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Store    Store    `mapstructure:"store"`
	Database Database `mapstructure:"database"`
	Logger   Logger   `mapstructure:"logger"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
	// SubmitRate limits form submissions per second. Zero means unlimited.
	SubmitRate  float64 `mapstructure:"submit_rate" validate:"gte=0"`
	SubmitBurst int     `mapstructure:"submit_burst" validate:"gte=1"`
}

// Store holds the configuration for the trade log.
type Store struct {
	Driver string `mapstructure:"driver" validate:"oneof=csv sqlite"`
	Path   string `mapstructure:"path" validate:"required_if=Driver csv"`
	// Cache memoizes the first load for the life of the process.
	Cache bool `mapstructure:"cache"`
}

// Database holds the configuration for the sqlite store.
type Database struct {
	DSN string `mapstructure:"dsn" validate:"required"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level" validate:"required"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// LoadConfig reads configuration from path/config.yml, an optional path/.env
// file and environment variables. Every key has a default, so a missing config
// file is not an error.
func LoadConfig(path string) (config Config, err error) {
	if err = loadDotEnv(filepath.Join(path, ".env")); err != nil {
		return
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8501)
	v.SetDefault("server.submit_rate", 0)
	v.SetDefault("server.submit_burst", 1)
	v.SetDefault("store.driver", "csv")
	v.SetDefault("store.path", "trade_log.csv")
	v.SetDefault("store.cache", true)
	v.SetDefault("database.dsn", "trade_log.db")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}

	err = config.Validate()
	return
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadDotEnv(file string) error {
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	return nil
}
