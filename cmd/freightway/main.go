// Command freightway runs the freightway API gateway: the HTTP surface with
// uniform error translation plus the service-discovery registration
// lifecycle.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillsenselab/freightway/config"
	"github.com/skillsenselab/freightway/discovery"
	"github.com/skillsenselab/freightway/discovery/consul"
	"github.com/skillsenselab/freightway/logger"
	"github.com/skillsenselab/freightway/observability"
	"github.com/skillsenselab/freightway/server"
	"github.com/skillsenselab/freightway/server/endpoint"
	"github.com/skillsenselab/freightway/version"
)

const serviceName = "freightway"

// newRegistrar builds the registry client; a variable so tests can stand in
// a failing constructor.
var newRegistrar = func(cfg discovery.Config, log *logger.Logger) (discovery.Registrar, error) {
	return consul.New(cfg, log)
}

func main() {
	if err := run(); err != nil {
		logger.Fatal("gateway failed", logger.Fields("error", err.Error()))
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(serviceName)
	if err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()

	log.Info("starting gateway", logger.Fields(
		"service", cfg.Name,
		"environment", cfg.Environment,
		"version", version.GetShortVersion(),
	))

	if cfg.Observability.Enabled {
		svc := observability.ServiceInfo{
			Name:        cfg.Name,
			Version:     version.GetShortVersion(),
			Environment: cfg.Environment,
		}
		tp, err := observability.InitTracer(ctx, cfg.Observability, svc)
		if err != nil {
			return err
		}
		defer func() { _ = tp.Shutdown(context.Background()) }()

		mp, err := observability.InitMeter(ctx, cfg.Observability, svc)
		if err != nil {
			return err
		}
		defer func() { _ = mp.Shutdown(context.Background()) }()
	}

	publisher := buildPublisher(cfg, log)

	srv := server.New(cfg.Server, log)
	srv.RegisterDefaultEndpoints(func() (string, string) {
		if !publisher.Enabled() || publisher.Registered() {
			return "discovery", endpoint.StatusHealthy
		}
		return "discovery", endpoint.StatusDegraded
	})

	if err := srv.Start(ctx); err != nil {
		return err
	}

	if err := publisher.Start(ctx); err != nil {
		return err
	}
	defer publisher.Shutdown(discovery.ReasonNormalExit)

	sig := waitForSignal(log)

	reason := discovery.ReasonInterrupted
	if sig == syscall.SIGTERM {
		reason = discovery.ReasonTerminated
	}
	publisher.Shutdown(reason)

	if err := srv.Stop(ctx); err != nil {
		log.Error("server shutdown error", logger.Fields("error", err.Error()))
	}

	log.Info("gateway stopped", logger.Fields("signal", sig.String()))
	return nil
}

// buildPublisher gates registration on both configuration and the platform
// metadata: a locally run gateway never registers even with discovery
// enabled in its config. Registration problems never refuse service, so a
// registrar that cannot be built degrades to a disabled publisher.
func buildPublisher(cfg *config.Config, log *logger.Logger) *discovery.Publisher {
	dcfg := cfg.Discovery

	meta, onPlatform := config.PlatformMetadata()
	if !onPlatform {
		if dcfg.Enabled {
			log.Info("platform metadata absent, skipping service discovery")
		}
		dcfg.Enabled = false
		return discovery.NewPublisher(dcfg, nil, log)
	}

	if dcfg.AdvertiseURL == "" {
		dcfg.AdvertiseURL = meta.AdvertiseURI()
	}
	if creds, ok := config.DiscoveryCredentials(); ok {
		if creds.URL != "" {
			dcfg.ConsulAddr = creds.URL
		}
		if creds.AuthToken != "" {
			dcfg.ConsulToken = creds.AuthToken
		}
	}
	dcfg.Tags = append(dcfg.Tags, config.DeploymentEnv(cfg.Environment))

	if !dcfg.Enabled {
		return discovery.NewPublisher(dcfg, nil, log)
	}

	registrar, err := newRegistrar(dcfg, log)
	if err != nil {
		log.WithError(err).Error("discovery registrar unavailable, continuing unregistered")
		dcfg.Enabled = false
		return discovery.NewPublisher(dcfg, nil, log)
	}
	return discovery.NewPublisher(dcfg, registrar, log)
}

func waitForSignal(log *logger.Logger) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	sig := <-sigCh
	log.Info("received shutdown signal", logger.Fields("signal", sig.String()))
	return sig
}
