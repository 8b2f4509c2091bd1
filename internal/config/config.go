// Package config loads service configuration from an optional YAML file,
// a .env file and FT_-prefixed environment variables, in increasing order
// of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../.env",
}

// Config holds everything the service needs at startup.
type Config struct {
	Port        string `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`
	GeminiModel string `mapstructure:"gemini_model"`

	// RequestTimeout bounds one whole pipeline run, including all
	// generator calls; the core itself imposes no timeouts.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load reads configuration. A missing config file is fine; environment
// variables (FT_PORT, FT_DATABASE_URL, ...) always win.
func Load() (*Config, error) {
	loadDotEnvFile()

	v := viper.New()
	v.SetConfigName("fintalk")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetDefault("port", "8000")
	v.SetDefault("database_url", "")
	v.SetDefault("gemini_model", "")
	v.SetDefault("request_timeout", 60*time.Second)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("FT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// DATABASE_URL without the prefix is the common deployment convention;
	// honor it when the prefixed form is absent.
	if v.GetString("database_url") == "" {
		v.Set("database_url", os.Getenv("DATABASE_URL"))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: database URL is required (set FT_DATABASE_URL or DATABASE_URL)")
	}

	return &cfg, nil
}

func loadDotEnvFile() {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}
