// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port             string `mapstructure:"PORT"`
	Env              string `mapstructure:"APP_ENV"`
	DBDriver         string `mapstructure:"DB_DRIVER"`
	DBHost           string `mapstructure:"DB_HOST"`
	DBPort           string `mapstructure:"DB_PORT"`
	DBUser           string `mapstructure:"DB_USER"`
	DBPassword       string `mapstructure:"DB_PASSWORD"`
	DBName           string `mapstructure:"DB_NAME"`
	DBSSLMode        string `mapstructure:"DB_SSLMODE"`
	SQLitePath       string `mapstructure:"SQLITE_PATH"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	AdminUsername    string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword    string `mapstructure:"ADMIN_PASSWORD"`
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`
	SearchTimeoutSec int    `mapstructure:"SEARCH_TIMEOUT_SECONDS"`
	UploadDir        string `mapstructure:"UPLOAD_DIR"`
	PublicBaseURL    string `mapstructure:"PUBLIC_BASE_URL"`
	AllowedOrigins   string `mapstructure:"ALLOWED_ORIGINS"`
	DefaultAuthor    string `mapstructure:"DEFAULT_AUTHOR"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults suffice.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "blog")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "blog")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("SQLITE_PATH", "blog.db")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-this")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "admin123")
	viper.SetDefault("ELASTICSEARCH_URL", "http://localhost:9200")
	viper.SetDefault("SEARCH_TIMEOUT_SECONDS", 10)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8000")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("DEFAULT_AUTHOR", "Itsour")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("unsupported DB_DRIVER %q (expected sqlite or postgres)", c.DBDriver)
	}
	if c.SearchTimeoutSec <= 0 {
		return errors.New("SEARCH_TIMEOUT_SECONDS must be positive")
	}

	if c.IsProduction() {
		if c.JWTSecret == "your-secret-key-change-this" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.AdminPassword == "admin123" || c.AdminPassword == "" {
			return errors.New("a strong ADMIN_PASSWORD is required in production")
		}
		if c.DBDriver == "postgres" && (c.DBSSLMode == "disable" || c.DBSSLMode == "") {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	return nil
}

// IsProduction reports whether the app runs with production strictness.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
