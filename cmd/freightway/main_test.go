package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/skillsenselab/freightway/config"
	"github.com/skillsenselab/freightway/discovery"
	"github.com/skillsenselab/freightway/logger"
)

func testGatewayConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Name = "freightway"
	cfg.Discovery.Enabled = true
	cfg.Discovery.ServiceName = "freightway"
	cfg.ApplyDefaults()
	return cfg
}

func TestBuildPublisher_NoPlatformMetadataDisables(t *testing.T) {
	t.Setenv(config.EnvApplication, "")

	p := buildPublisher(testGatewayConfig(), logger.NewDefault("test"))

	if p.Enabled() {
		t.Error("expected publisher disabled without platform metadata")
	}
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("disabled publisher must start cleanly: %v", err)
	}
	if p.State() != discovery.StateDisabled {
		t.Errorf("expected disabled state, got %s", p.State())
	}
}

func TestBuildPublisher_RegistrarFailureDegrades(t *testing.T) {
	t.Setenv(config.EnvApplication, `{"application_uris":["freightway.example.com"]}`)

	orig := newRegistrar
	newRegistrar = func(discovery.Config, *logger.Logger) (discovery.Registrar, error) {
		return nil, fmt.Errorf("registry client: no such host")
	}
	defer func() { newRegistrar = orig }()

	p := buildPublisher(testGatewayConfig(), logger.NewDefault("test"))

	if p.Enabled() {
		t.Error("expected degraded publisher when the registrar cannot be built")
	}
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("degraded publisher must start cleanly: %v", err)
	}
	if p.State() != discovery.StateDisabled {
		t.Errorf("expected disabled state, got %s", p.State())
	}
	p.Shutdown(discovery.ReasonNormalExit)
}

func TestBuildPublisher_ConfigDisabledStaysDisabled(t *testing.T) {
	t.Setenv(config.EnvApplication, `{"application_uris":["freightway.example.com"]}`)

	cfg := testGatewayConfig()
	cfg.Discovery.Enabled = false
	p := buildPublisher(cfg, logger.NewDefault("test"))

	if p.Enabled() {
		t.Error("expected publisher disabled when discovery is off in config")
	}
}
