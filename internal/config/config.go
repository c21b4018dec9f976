package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the server.
type Config struct {
	HTTPAddr      string
	DatabaseURL   string
	SweepInterval time.Duration
	AllowOrigins  []string
}

// Load reads configuration from an optional questboard.yaml and from
// environment variables, with sane defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database_url", "questboard.db")
	v.SetDefault("sweep_interval", time.Minute)
	v.SetDefault("allow_origins", []string{"*"})

	v.SetConfigName("questboard")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("questboard")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		HTTPAddr:      v.GetString("http_addr"),
		DatabaseURL:   v.GetString("database_url"),
		SweepInterval: v.GetDuration("sweep_interval"),
		AllowOrigins:  v.GetStringSlice("allow_origins"),
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return cfg, nil
}
