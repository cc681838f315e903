// Package consul implements the discovery.Registrar contract against a
// HashiCorp Consul agent using a TTL health check.
package consul

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/consul/api"

	"github.com/skillsenselab/freightway/discovery"
	"github.com/skillsenselab/freightway/logger"
)

// Registrar registers service instances with Consul.
type Registrar struct {
	client *api.Client
	cfg    discovery.Config
	log    *logger.Logger
}

// New creates a Registrar from the given Config.
func New(cfg discovery.Config, log *logger.Logger) (*Registrar, error) {
	apiCfg := api.DefaultConfig()
	apiCfg.Address = cfg.ConsulAddr
	apiCfg.Scheme = cfg.ConsulScheme
	apiCfg.Token = cfg.ConsulToken
	if cfg.ConsulDatacenter != "" {
		apiCfg.Datacenter = cfg.ConsulDatacenter
	}
	// Bound every agent call so a hung registry cannot stall shutdown.
	apiCfg.HttpClient = &http.Client{Timeout: cfg.CallTimeout}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}

	return &Registrar{
		client: client,
		cfg:    cfg,
		log:    log.WithComponent("consul"),
	}, nil
}

// Register registers the service with a TTL check and reports the initial
// status immediately so the instance is visible before the first heartbeat.
func (r *Registrar) Register(ctx context.Context, reg *discovery.Registration) (*discovery.Handle, error) {
	host, port := splitAdvertise(reg.AdvertiseURL, reg.Protocol)

	serviceID := fmt.Sprintf("%s-%s", reg.Name, uuid.New().String()[:8])
	checkID := "service:" + serviceID

	meta := map[string]string{"protocol": reg.Protocol}
	for k, v := range reg.Metadata {
		meta[k] = v
	}

	asr := &api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    reg.Name,
		Address: host,
		Port:    port,
		Tags:    reg.Tags,
		Meta:    meta,
		Check: &api.AgentServiceCheck{
			CheckID:                        checkID,
			TTL:                            fmt.Sprintf("%ds", reg.TTLSeconds),
			DeregisterCriticalServiceAfter: r.cfg.DeregisterAfter.String(),
		},
	}

	if err := r.client.Agent().ServiceRegister(asr); err != nil {
		return nil, fmt.Errorf("%w: register %q: %v", discovery.ErrRegistryUnavailable, reg.Name, err)
	}

	if err := r.client.Agent().UpdateTTL(checkID, reg.Status, statusToTTL(reg.Status)); err != nil {
		r.log.Warn("initial status update failed", logger.Fields(
			"service_id", serviceID,
			"error", err.Error(),
		))
	}

	r.log.Info("service registered with consul", logger.Fields(
		"service_id", serviceID,
		"address", host,
		"port", port,
	))

	return &discovery.Handle{ServiceID: serviceID, CheckID: checkID}, nil
}

// Heartbeat renews the TTL check.
func (r *Registrar) Heartbeat(ctx context.Context, h *discovery.Handle) error {
	if err := r.client.Agent().UpdateTTL(h.CheckID, "", api.HealthPassing); err != nil {
		return fmt.Errorf("%w: heartbeat %q: %v", discovery.ErrRegistryUnavailable, h.ServiceID, err)
	}
	return nil
}

// Deregister removes the service instance from Consul.
func (r *Registrar) Deregister(ctx context.Context, h *discovery.Handle) error {
	if err := r.client.Agent().ServiceDeregister(h.ServiceID); err != nil {
		return fmt.Errorf("%w: deregister %q: %v", discovery.ErrRegistryUnavailable, h.ServiceID, err)
	}
	r.log.Info("service deregistered", logger.Fields("service_id", h.ServiceID))
	return nil
}

// splitAdvertise extracts host and port from an advertise URL. Bare hostnames
// get the protocol's default port.
func splitAdvertise(advertise, protocol string) (string, int) {
	defaultPort := 80
	if protocol == "https" {
		defaultPort = 443
	}

	raw := advertise
	if !strings.Contains(raw, "://") {
		raw = protocol + "://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return advertise, defaultPort
	}

	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		return u.Host, defaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, defaultPort
	}
	return host, port
}

// statusToTTL maps the advertised status onto a Consul check state.
func statusToTTL(status string) string {
	switch strings.ToUpper(status) {
	case "UP", "PASSING":
		return api.HealthPassing
	case "WARNING":
		return api.HealthWarning
	default:
		return api.HealthCritical
	}
}

// Compile-time check.
var _ discovery.Registrar = (*Registrar)(nil)
