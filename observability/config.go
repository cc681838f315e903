package observability

// Config configures OpenTelemetry trace and metric export.
type Config struct {
	// Enabled turns telemetry export on. When false the gateway runs with
	// the default no-op providers.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Insecure allows plain HTTP connections to the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`

	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`

	// MetricIntervalSeconds is the metric export interval.
	MetricIntervalSeconds int `yaml:"metric_interval_seconds" mapstructure:"metric_interval_seconds" validate:"omitempty,gt=0"`
}

// ApplyDefaults fills zero-valued fields with development defaults.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
		c.Insecure = true
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricIntervalSeconds == 0 {
		c.MetricIntervalSeconds = 15
	}
}
