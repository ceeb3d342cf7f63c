package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// GetConfig builds a configuration from environment variables alone, for
// setups that do not ship a yaml file. A .env file is honored when present.
func GetConfig() *AppConfig {
	_ = godotenv.Load()

	timeout, _ := strconv.Atoi(getEnv("CAMPUSMARKET_TIMEOUT_SECONDS", "30"))
	ratePerSec, _ := strconv.ParseFloat(getEnv("CAMPUSMARKET_RATE_PER_SECOND", "5"), 64)

	cfg := &AppConfig{
		API: APIConfig{
			BaseURL:        getEnv("CAMPUSMARKET_API_URL", "http://localhost:5000"),
			TimeoutSeconds: timeout,
			RatePerSecond:  ratePerSec,
		},
		Auth: AuthConfig{
			TokenPath: getEnv("CAMPUSMARKET_TOKEN_PATH", ""),
		},
	}
	cfg.fillDefaults()
	return cfg
}

func (c *AppConfig) fillDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:5000"
	}
	if c.API.RatePerSecond <= 0 {
		c.API.RatePerSecond = 5
	}
	if c.Auth.TokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Auth.TokenPath = filepath.Join(home, ".campusmarket", "token.json")
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
