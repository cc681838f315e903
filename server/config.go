package server

import (
	"fmt"

	"github.com/skillsenselab/freightway/server/middleware"
)

// Config holds HTTP server configuration.
type Config struct {
	// ServiceName tags spans and default endpoints; filled from the service
	// config by the caller.
	ServiceName string `yaml:"-" mapstructure:"-"`

	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port" validate:"omitempty,gt=0,lte=65535"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout"`

	// APIPrefix is the versioned prefix resource route groups mount under.
	APIPrefix string `yaml:"api_prefix" mapstructure:"api_prefix"`

	// StaticDir is the UI bundle directory; index.html inside it is the app
	// shell served to document clients.
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`

	// AuthSecret signs the Bearer tokens the auth-context middleware parses.
	AuthSecret string `yaml:"auth_secret" mapstructure:"auth_secret"`

	CORS *middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults fills zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120
	}
	if c.APIPrefix == "" {
		c.APIPrefix = "/api/v1"
	}
	if c.StaticDir == "" {
		c.StaticDir = "ui_dist"
	}
	if c.CORS == nil {
		c.CORS = middleware.DefaultCORSConfig()
	}
}

// Validate checks server configuration consistency.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got: %d)", c.Port)
	}
	return nil
}
