package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Model      ModelConfig
	Validation ValidationConfig
	Cache      CacheConfig
	Logger     LoggerConfig
	Metrics    MetricsConfig
	CORS       CORSConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ModelConfig struct {
	Path     string
	MaxBytes int64
}

type ValidationConfig struct {
	Strict bool
}

type CacheConfig struct {
	Size int
}

type LoggerConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type MetricsConfig struct {
	Enabled    bool
	Addr       string
	Namespace  string
	Tags       []string
	SampleRate float64
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from the environment. If CONFIG_FILE is set, that
// file is read first and environment variables override it.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 5000)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("MODEL_PATH", "models/iris.yaml")
	v.SetDefault("MODEL_MAX_BYTES", 64<<20)
	v.SetDefault("VALIDATION_STRICT", false)
	v.SetDefault("CACHE_SIZE", 1024)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOGGER_FILE", "")
	v.SetDefault("LOGGER_MAX_SIZE_MB", 100)
	v.SetDefault("LOGGER_MAX_BACKUPS", 3)
	v.SetDefault("LOGGER_MAX_AGE_DAYS", 28)
	v.SetDefault("METRICS_ENABLED", false)
	v.SetDefault("METRICS_ADDR", "localhost:8125")
	v.SetDefault("METRICS_NAMESPACE", "prediction_service.")
	v.SetDefault("METRICS_TAGS", "")
	v.SetDefault("METRICS_SAMPLE_RATE", 1.0)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// Env
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	shutdown, err := time.ParseDuration(v.GetString("SERVER_SHUTDOWN_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: shutdown,
		},
		Model: ModelConfig{
			Path:     v.GetString("MODEL_PATH"),
			MaxBytes: v.GetInt64("MODEL_MAX_BYTES"),
		},
		Validation: ValidationConfig{
			Strict: v.GetBool("VALIDATION_STRICT"),
		},
		Cache: CacheConfig{
			Size: v.GetInt("CACHE_SIZE"),
		},
		Logger: LoggerConfig{
			Level:      v.GetString("LOGGER_LEVEL"),
			Format:     v.GetString("LOGGER_FORMAT"),
			File:       v.GetString("LOGGER_FILE"),
			MaxSizeMB:  v.GetInt("LOGGER_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOGGER_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOGGER_MAX_AGE_DAYS"),
		},
		Metrics: MetricsConfig{
			Enabled:    v.GetBool("METRICS_ENABLED"),
			Addr:       v.GetString("METRICS_ADDR"),
			Namespace:  v.GetString("METRICS_NAMESPACE"),
			Tags:       splitList(v.GetString("METRICS_TAGS")),
			SampleRate: v.GetFloat64("METRICS_SAMPLE_RATE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT %s", c.Server.ShutdownTimeout)
	}
	if c.Model.Path == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if c.Model.MaxBytes < 0 {
		return fmt.Errorf("invalid MODEL_MAX_BYTES %d", c.Model.MaxBytes)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("invalid CACHE_SIZE %d", c.Cache.Size)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
