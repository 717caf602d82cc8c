package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/mocka2a/internal/telemetry"
)

// Defaults applied to unset fields.
const (
	DefaultPort = 9999
	DefaultBind = "0.0.0.0"
)

// Config holds the mock server settings loaded from a YAML file.
type Config struct {
	Port      int    `yaml:"port,omitempty"`
	Bind      string `yaml:"bind,omitempty"`
	LogLevel  string `yaml:"logLevel,omitempty"`
	LogFormat string `yaml:"logFormat,omitempty"`
	MCPAddr   string `yaml:"mcpAddr,omitempty"`
	Metrics   bool   `yaml:"metrics,omitempty"`
	Agent     Agent  `yaml:"agent,omitempty"`
}

// Agent overrides fields of the served agent card. Empty fields keep the
// defaults.
type Agent struct {
	Name         string `yaml:"name,omitempty"`
	Description  string `yaml:"description,omitempty"`
	URL          string `yaml:"url,omitempty"`
	Version      string `yaml:"version,omitempty"`
	Organization string `yaml:"organization,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Port: DefaultPort,
		Bind: DefaultBind,
	}
}

// Load reads the YAML file at path. An empty path returns Default(). Unset
// port and bind fall back to the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Bind == "" {
		cfg.Bind = DefaultBind
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if _, err := telemetry.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "", telemetry.FormatJSON, telemetry.FormatConsole:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ListenAddr returns the host:port the A2A server binds.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// AgentURL returns the URL advertised in the agent card.
func (c *Config) AgentURL() string {
	if c.Agent.URL != "" {
		return c.Agent.URL
	}
	return fmt.Sprintf("http://localhost:%d", c.Port)
}
