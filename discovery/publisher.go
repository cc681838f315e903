package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/skillsenselab/freightway/logger"
	"github.com/skillsenselab/freightway/observability"
)

// State is the publisher's position in the registration lifecycle.
type State int

const (
	// StateDisabled means registration is off or the platform metadata is
	// missing; every other transition is unreachable.
	StateDisabled State = iota
	// StateRegistering means the register call is in flight.
	StateRegistering
	// StateRegistered means the instance is visible at the registry and the
	// heartbeat is running.
	StateRegistered
	// StateDeregistering means a shutdown trigger has claimed deregistration.
	StateDeregistering
	// StateDeregistered is terminal.
	StateDeregistered
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateRegistering:
		return "registering"
	case StateRegistered:
		return "registered"
	case StateDeregistering:
		return "deregistering"
	case StateDeregistered:
		return "deregistered"
	default:
		return "unknown"
	}
}

// ShutdownReason records which trigger started deregistration. All reasons
// deregister; the enumeration exists for logging and tests.
type ShutdownReason int

const (
	ReasonNormalExit ShutdownReason = iota
	ReasonTerminated
	ReasonInterrupted
)

func (r ShutdownReason) String() string {
	switch r {
	case ReasonNormalExit:
		return "normal_exit"
	case ReasonTerminated:
		return "terminated"
	case ReasonInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Publisher owns the registration state machine. The registered flag is the
// single piece of state contended between the heartbeat loop, concurrent
// shutdown signals, and normal process-exit cleanup; every check-then-set on
// it happens under mu so deregistration runs at most once per process.
type Publisher struct {
	registrar Registrar
	cfg       Config
	log       *logger.Logger

	mu         sync.Mutex
	state      State
	handle     *Handle
	registered bool
	stopBeat   chan struct{}
	beatDone   chan struct{}
}

// NewPublisher creates a Publisher in the Disabled state.
func NewPublisher(cfg Config, registrar Registrar, log *logger.Logger) *Publisher {
	return &Publisher{
		registrar: registrar,
		cfg:       cfg,
		log:       log.WithComponent("discovery"),
	}
}

// Start registers the service and begins heartbeating. Registration failure
// is never fatal: the publisher degrades to Disabled and the gateway keeps
// serving without discovery visibility. Start returns an error only for
// programming mistakes (calling it twice).
func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateDisabled || p.registered {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	if !p.cfg.Enabled {
		p.mu.Unlock()
		p.log.Info("service discovery disabled, skipping registration")
		return nil
	}
	p.state = StateRegistering
	p.mu.Unlock()

	reg := p.cfg.NewRegistration()
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	callCtx, span := observability.StartSpan(callCtx, "discovery.register")
	handle, err := p.registrar.Register(callCtx, reg)
	if err != nil {
		span.RecordError(err)
	}
	span.End()
	cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		// Degraded: keep serving without discovery visibility.
		p.state = StateDisabled
		p.log.WithError(err).Error("service registration failed, continuing unregistered", logger.Fields(
			"service", reg.Name,
		))
		return nil
	}

	p.handle = handle
	p.registered = true
	p.state = StateRegistered
	p.stopBeat = make(chan struct{})
	p.beatDone = make(chan struct{})
	go p.heartbeatLoop(p.stopBeat, p.beatDone, handle)

	p.log.Info("service registered", logger.Fields(
		"service", reg.Name,
		"service_id", handle.ServiceID,
		"ttl_seconds", reg.TTLSeconds,
		"advertise_url", reg.AdvertiseURL,
	))
	return nil
}

// heartbeatLoop renews the TTL until told to stop. Failures are logged and
// do not change the publisher state.
func (p *Publisher) heartbeatLoop(stop <-chan struct{}, done chan<- struct{}, handle *Handle) {
	defer close(done)

	ticker := time.NewTicker(p.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), p.cfg.CallTimeout)
			err := p.registrar.Heartbeat(ctx, handle)
			cancel()
			if err != nil {
				p.log.Warn("heartbeat failed", logger.Fields(
					"service_id", handle.ServiceID,
					"error", err.Error(),
				))
			}
		}
	}
}

// Shutdown deregisters the service. The first trigger to arrive claims the
// deregistration by flipping the registered flag before the network call, so
// any later trigger observes an unregistered publisher and returns
// immediately. Deregister failure is logged and swallowed; shutdown proceeds.
func (p *Publisher) Shutdown(reason ShutdownReason) {
	p.mu.Lock()
	if !p.registered {
		p.mu.Unlock()
		return
	}
	p.registered = false
	p.state = StateDeregistering
	handle := p.handle
	stop, done := p.stopBeat, p.beatDone
	p.mu.Unlock()

	p.log.Info("deregistering service", logger.Fields(
		"service_id", handle.ServiceID,
		"reason", reason.String(),
	))

	close(stop)
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.CallTimeout)
	defer cancel()
	ctx, span := observability.StartSpan(ctx, "discovery.deregister")
	defer span.End()
	if err := p.registrar.Deregister(ctx, handle); err != nil {
		span.RecordError(err)
		p.log.WithError(err).Error("deregistration failed", logger.Fields(
			"service_id", handle.ServiceID,
		))
	}

	p.mu.Lock()
	p.state = StateDeregistered
	p.mu.Unlock()
}

// State returns the current lifecycle state.
func (p *Publisher) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Registered reports whether the instance is currently visible at the registry.
func (p *Publisher) Registered() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registered
}

// Enabled reports whether this publisher was configured to register at all.
func (p *Publisher) Enabled() bool {
	return p.cfg.Enabled
}
