package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port      string `yaml:"port"`
		DataDir   string `yaml:"dataDir"`
		PublicDir string `yaml:"publicDir"`
	} `yaml:"server"`
	Postgres struct {
		URL     string `yaml:"url"`
		BoardID string `yaml:"boardId"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Board struct {
		TTL string `yaml:"ttl"`
	} `yaml:"board"`
	Game struct {
		RotationTick     string `yaml:"rotationTick"`
		RotationMinTicks int    `yaml:"rotationMinTicks"`
		RotationMaxTicks int    `yaml:"rotationMaxTicks"`
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty or
// invalid.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
