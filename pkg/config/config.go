// Package config provides the simulator's server configuration and YAML
// loading.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPort is the port the API server binds when none is configured.
const DefaultPort = 8900

// Config is the top-level server configuration.
type Config struct {
	// Host is the interface to bind. Empty means all interfaces.
	Host string `yaml:"host,omitempty" json:"host,omitempty"`
	// Port is the HTTP port for the simulator API.
	Port int `yaml:"port,omitempty" json:"port,omitempty"`
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	// LogFormat is the log output format (text, json).
	LogFormat string `yaml:"logFormat,omitempty" json:"logFormat,omitempty"`
	// StartTime optionally pins the server clock to a fixed RFC3339
	// instant, so runs without X-Simulated-Time headers are still fully
	// deterministic.
	StartTime string `yaml:"startTime,omitempty" json:"startTime,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Port:      DefaultPort,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads a YAML config file and applies defaults to unset fields. An
// empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Validate checks field values. It does not touch the network.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	if c.StartTime != "" {
		if _, err := time.Parse(time.RFC3339, c.StartTime); err != nil {
			return fmt.Errorf("invalid startTime %q: %w", c.StartTime, err)
		}
	}
	return nil
}

// Addr returns the host:port address to bind.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// FixedStart returns the pinned start instant, if one is configured.
func (c *Config) FixedStart() (time.Time, bool) {
	if c.StartTime == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
