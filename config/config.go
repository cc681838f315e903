// Package config loads and validates freightway configuration from YAML
// files and environment variables, including the platform metadata injected
// by the deployment environment.
package config

import (
	"github.com/skillsenselab/freightway/discovery"
	"github.com/skillsenselab/freightway/observability"
	"github.com/skillsenselab/freightway/server"
	"github.com/skillsenselab/freightway/validation"
)

// Config is the full gateway configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Discovery     discovery.Config     `yaml:"discovery" mapstructure:"discovery"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// Load reads the gateway configuration, applies defaults, and validates it.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills every section with its defaults.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	c.Server.ServiceName = c.Name
	c.Server.ApplyDefaults()

	if c.Discovery.ServiceName == "" {
		c.Discovery.ServiceName = c.Name
	}
	c.Discovery.ApplyDefaults()

	c.Observability.ApplyDefaults()
}

// Validate checks every section for consistency.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Discovery.Validate(); err != nil {
		return err
	}
	return validation.Validate(c.Observability)
}
