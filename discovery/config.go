package discovery

import (
	"fmt"
	"time"
)

// Config holds service registration configuration.
type Config struct {
	// Enabled controls whether the gateway registers with discovery at all.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Provider selects the registry backend. Only "consul" is supported.
	Provider string `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=consul"`

	// ConsulAddr is the Consul agent address (host:port).
	ConsulAddr string `yaml:"consul_addr" mapstructure:"consul_addr"`

	// ConsulScheme is the URI scheme for Consul ("http" or "https").
	ConsulScheme string `yaml:"consul_scheme" mapstructure:"consul_scheme"`

	// ConsulToken is the Consul ACL token for authentication.
	ConsulToken string `yaml:"consul_token" mapstructure:"consul_token"`

	// ConsulDatacenter is the Consul datacenter name.
	ConsulDatacenter string `yaml:"consul_datacenter" mapstructure:"consul_datacenter"`

	// ServiceName is the name used when registering this service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// TTLSeconds is the registration time-to-live at the registry.
	TTLSeconds int `yaml:"ttl_seconds" mapstructure:"ttl_seconds" validate:"omitempty,gt=0"`

	// InitialStatus is the status advertised on registration.
	InitialStatus string `yaml:"initial_status" mapstructure:"initial_status"`

	// AdvertiseURL is the externally reachable address; filled from platform
	// metadata when empty.
	AdvertiseURL string `yaml:"advertise_url" mapstructure:"advertise_url"`

	// Protocol is the advertised scheme.
	Protocol string `yaml:"protocol" mapstructure:"protocol"`

	// Tags are metadata tags attached to the registration.
	Tags []string `yaml:"tags" mapstructure:"tags"`

	// HeartbeatInterval controls how often the TTL is renewed. Must stay
	// below TTLSeconds; defaults to half of it.
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval" mapstructure:"heartbeat_interval"`

	// CallTimeout bounds every registry call so a hung registry cannot
	// stall startup or shutdown.
	CallTimeout time.Duration `yaml:"call_timeout" mapstructure:"call_timeout"`

	// DeregisterAfter removes the service at the registry after being
	// critical for this duration.
	DeregisterAfter time.Duration `yaml:"deregister_after" mapstructure:"deregister_after"`
}

// ApplyDefaults fills zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "consul"
	}
	if c.ConsulAddr == "" {
		c.ConsulAddr = "localhost:8500"
	}
	if c.ConsulScheme == "" {
		c.ConsulScheme = "http"
	}
	if c.TTLSeconds == 0 {
		c.TTLSeconds = 300
	}
	if c.InitialStatus == "" {
		c.InitialStatus = "UP"
	}
	if c.Protocol == "" {
		c.Protocol = "http"
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = time.Duration(c.TTLSeconds) * time.Second / 2
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = 10 * time.Second
	}
	if c.DeregisterAfter == 0 {
		c.DeregisterAfter = time.Duration(2*c.TTLSeconds) * time.Second
	}
}

// Validate checks that required fields are present and consistent.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ServiceName == "" {
		return fmt.Errorf("discovery.service_name is required")
	}
	if c.TTLSeconds <= 0 {
		return fmt.Errorf("discovery.ttl_seconds must be > 0")
	}
	if c.HeartbeatInterval >= time.Duration(c.TTLSeconds)*time.Second {
		return fmt.Errorf("discovery.heartbeat_interval must be below the TTL")
	}
	return nil
}

// NewRegistration builds the registration payload from the config.
func (c *Config) NewRegistration() *Registration {
	return &Registration{
		Name:         c.ServiceName,
		TTLSeconds:   c.TTLSeconds,
		Status:       c.InitialStatus,
		AdvertiseURL: c.AdvertiseURL,
		Protocol:     c.Protocol,
		Tags:         c.Tags,
	}
}
