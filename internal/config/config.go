package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sigreer/smartattr/internal/smart"
)

type Config struct {
	Device  string           `yaml:"device"`
	Names   map[uint8]string `yaml:"names,omitempty"`
	Metrics Metrics          `yaml:"metrics"`
	NATS    NATS             `yaml:"nats"`
}

type Metrics struct {
	Listen   string        `yaml:"listen"`
	Interval time.Duration `yaml:"interval"`
}

type NATS struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject"`
}

var defaultConfig = Config{
	Device: "/dev/sda",
	Metrics: Metrics{
		Listen:   ":9633",
		Interval: 60 * time.Second,
	},
	NATS: NATS{
		Subject: "smartattr.health",
	},
}

// Default returns a copy of the built-in configuration
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}

// Load reads the config at path, or the first file found in the default
// locations when path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		candidates := []string{
			"/etc/smartattr/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/smartattr/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	var cfg Config
	if path == "" {
		cfg = defaultConfig
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			cfg = defaultConfig
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Device == "" {
		c.Device = defaultConfig.Device
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = defaultConfig.Metrics.Listen
	}
	if c.Metrics.Interval <= 0 {
		c.Metrics.Interval = defaultConfig.Metrics.Interval
	}
	if c.NATS.Subject == "" {
		c.NATS.Subject = defaultConfig.NATS.Subject
	}
}

// AttributeNames returns the configured display names
func (c *Config) AttributeNames() smart.Names {
	return smart.Names(c.Names)
}
