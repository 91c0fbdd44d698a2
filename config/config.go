package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	API    APIConfig    `yaml:"api"`
	Log    LogConfig    `yaml:"log"`
	Cache  CacheConfig  `yaml:"cache"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// APIConfig points the pipeline at the contract-analysis API. DetailPath is
// a fmt template receiving the contract id.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	ListPath       string `yaml:"list_path"`
	DetailPath     string `yaml:"detail_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// CacheConfig bounds the lifetime of the cached working set. A page-number
// change inside the TTL reuses the fetched set instead of calling the API.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8000"
	}
	if cfg.API.ListPath == "" {
		cfg.API.ListPath = "/contratos"
	}
	if cfg.API.DetailPath == "" {
		cfg.API.DetailPath = "/contratos/%s/analisis"
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 30
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 300
	}

	GlobalConfig = &cfg
	return &cfg, nil
}
