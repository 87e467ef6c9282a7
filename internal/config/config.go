package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Sheets struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"sheets"`
	Catalog struct {
		// Source is "static", "sheets", or "postgres".
		Source string `yaml:"source"`
		TTL    string `yaml:"ttl"`
	} `yaml:"catalog"`
	History struct {
		// Sink is "none", "sheets", or "postgres".
		Sink string `yaml:"sink"`
	} `yaml:"history"`
	Quiz struct {
		GiveUpToken        string `yaml:"giveUpToken"`
		NoToken            string `yaml:"noToken"`
		YesToken           string `yaml:"yesToken"`
		AllCategoriesToken string `yaml:"allCategoriesToken"`
		Taunts             struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"taunts"`
	} `yaml:"quiz"`
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

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
