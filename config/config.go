package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Models    ModelsConfig
	Translate TranslateConfig
}

type ServerConfig struct {
	Port          string
	Mode          string
	FrontendURL   string
	SessionSecret string
}

type ModelsConfig struct {
	Dir string
}

type TranslateConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	Retries int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			Mode:          getEnv("GIN_MODE", "release"),
			FrontendURL:   getEnv("FRONTEND_URL", "*"),
			SessionSecret: getEnv("SESSION_SECRET", "heart_disease_prediction_key"),
		},
		Models: ModelsConfig{
			Dir: getEnv("MODELS_DIR", "models"),
		},
		Translate: TranslateConfig{
			URL:     getEnv("TRANSLATE_URL", ""),
			APIKey:  getEnv("TRANSLATE_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("TRANSLATE_TIMEOUT_SECONDS", 10)) * time.Second,
			Retries: getEnvInt("TRANSLATE_RETRIES", 2),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
