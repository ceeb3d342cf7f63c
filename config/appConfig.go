package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type APIConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RatePerSecond  float64 `yaml:"rate_per_second"`
}

func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type AuthConfig struct {
	TokenPath string `yaml:"token_path"`
}

type AppConfig struct {
	API  APIConfig  `yaml:"api"`
	Auth AuthConfig `yaml:"auth"`
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := &AppConfig{}
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	config.fillDefaults()
	return config, nil
}
