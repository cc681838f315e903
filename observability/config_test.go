package observability

import "testing"

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %s", cfg.Endpoint)
	}
	if !cfg.Insecure {
		t.Error("expected insecure default for local endpoint")
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.MetricIntervalSeconds != 15 {
		t.Errorf("expected 15s metric interval, got %d", cfg.MetricIntervalSeconds)
	}
}

func TestConfigApplyDefaults_KeepsExplicitEndpoint(t *testing.T) {
	cfg := Config{Endpoint: "collector.internal:4318"}
	cfg.ApplyDefaults()

	if cfg.Endpoint != "collector.internal:4318" {
		t.Errorf("explicit endpoint overwritten: %s", cfg.Endpoint)
	}
	if cfg.Insecure {
		t.Error("explicit endpoint should not imply insecure")
	}
}
