// Package discovery manages the gateway's registration with an external
// service-discovery registry: one-shot registration at startup, a TTL
// heartbeat while running, and at-most-once deregistration on shutdown.
package discovery

import (
	"context"
	"errors"
)

// ErrRegistryUnavailable indicates the registry could not be reached or
// rejected the credentials. Callers treat it as log-and-continue; it never
// stops the gateway from serving.
var ErrRegistryUnavailable = errors.New("discovery registry unavailable")

// ErrAlreadyStarted is returned when Start is called on a publisher that has
// already left the initial state. Registration is one-shot per process.
var ErrAlreadyStarted = errors.New("publisher already started")

// Registration describes the service instance advertised to the registry.
type Registration struct {
	// Name is the service name other components look up.
	Name string
	// TTLSeconds is the liveness window; the registration expires at the
	// registry unless renewed within it.
	TTLSeconds int
	// Status is the initial health status reported on registration.
	Status string
	// AdvertiseURL is the externally reachable address for this instance.
	AdvertiseURL string
	// Protocol is the scheme the service speaks ("http" or "https").
	Protocol string
	// Tags are static identifiers plus the deployment environment name.
	Tags []string
	// Metadata is arbitrary key-value metadata for the registration.
	Metadata map[string]string
}

// Handle is the registry-issued identity for a completed registration. It is
// owned by the Publisher and read-only everywhere else.
type Handle struct {
	ServiceID string
	CheckID   string
}

// Registrar is the contract with the external discovery registry.
type Registrar interface {
	// Register advertises the service and returns its registry handle.
	Register(ctx context.Context, reg *Registration) (*Handle, error)

	// Heartbeat renews the registration TTL. Best effort; failures are
	// logged by the caller, never fatal.
	Heartbeat(ctx context.Context, h *Handle) error

	// Deregister removes the registration. Failures are log-and-continue
	// and must never block process exit.
	Deregister(ctx context.Context, h *Handle) error
}
