package connection

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/transport"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/lux2go/lux2go/internal/util"
)

// Pipeline is driven by the Manager while streaming
type Pipeline interface {
	// HandleNotification is called for every sensor notification, from a transport goroutine
	HandleNotification(data []byte)
	// Tick advances the pipeline and returns the actuator command to write, if any
	Tick(now time.Time) (command []byte, write bool)
	// Commit is called once the command returned by Tick has been written successfully
	Commit(now time.Time)
}

// SessionState is the externally visible state of the link
type SessionState struct {
	Phase      Phase         `json:"phase"`
	DeviceName string        `json:"deviceName"`
	Address    string        `json:"address"`
	SessionId  string        `json:"sessionId"`
	Backoff    time.Duration `json:"backoff"`
	Since      time.Time     `json:"since"`
}

// Counters are monotonic counters of link events
type Counters struct {
	Connects      uint64 `json:"connects"`
	Reconnects    uint64 `json:"reconnects"`
	Backoffs      uint64 `json:"backoffs"`
	Writes        uint64 `json:"writes"`
	WriteFailures uint64 `json:"writeFailures"`
}

// Manager owns the transport session and drives the pipeline while streaming.
// Transport failures never terminate it, it keeps retrying until its context is cancelled.
type Manager struct {
	config    configuration.ConnectionConfig
	transport transport.Transport
	pipeline  Pipeline
	clock     clock.Clock

	backoff    time.Duration
	peripheral *transport.Peripheral
	session    transport.Session
	sessionId  string

	state         util.Cell[SessionState]
	connects      atomic.Uint64
	backoffs      atomic.Uint64
	writes        atomic.Uint64
	writeFailures atomic.Uint64
}

func NewManager(
	config configuration.ConnectionConfig,
	t transport.Transport,
	pipeline Pipeline,
	clk clock.Clock,
) *Manager {
	m := &Manager{
		config:    config,
		transport: t,
		pipeline:  pipeline,
		clock:     clk,
		backoff:   config.Backoff.Min,
	}
	m.setPhase(Scanning)
	return m
}

// Run drives the session lifecycle until ctx is cancelled
func (m *Manager) Run(ctx context.Context) error {
	defer m.release()

	phase := Scanning
	for {
		if ctx.Err() != nil {
			ui.Info("Stopping connection manager")
			return nil
		}
		m.setPhase(phase)

		switch phase {
		case Scanning:
			phase = m.scan(ctx)
		case Connecting:
			phase = m.connect(ctx)
		case Subscribed:
			phase = m.subscribe(ctx)
		case Streaming:
			phase = m.stream(ctx)
		case Disconnected:
			phase = m.disconnect(ctx)
		}
	}
}

func (m *Manager) scan(ctx context.Context) Phase {
	ui.Info("Scanning for '%s'...", m.config.DeviceName)
	peripheral, err := m.transport.Scan(ctx, m.config.DeviceName, m.config.ScanTimeout)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			ui.Warning("Scan failed: %v", err)
		}
		m.sleepBackoff(ctx)
		return Scanning
	}
	if peripheral == nil {
		ui.Warning("Device '%s' not found within %s", m.config.DeviceName, m.config.ScanTimeout)
		m.sleepBackoff(ctx)
		return Scanning
	}
	ui.Info("Found '%s' at %s", peripheral.Name, peripheral.Address)
	m.peripheral = peripheral
	return Connecting
}

func (m *Manager) connect(ctx context.Context) Phase {
	session, err := m.transport.Connect(ctx, *m.peripheral)
	if err != nil {
		ui.Warning("Unable to connect to %s: %v", m.peripheral.Address, err)
		m.sleepBackoff(ctx)
		return Scanning
	}
	if !session.IsConnected() {
		ui.Warning("Session to %s is not connected", m.peripheral.Address)
		_ = session.Disconnect()
		m.sleepBackoff(ctx)
		return Scanning
	}
	m.session = session
	m.sessionId = uuid.NewString()
	ui.Info("Connected to %s (session %s)", m.peripheral.Address, m.sessionId)
	return Subscribed
}

func (m *Manager) subscribe(ctx context.Context) Phase {
	err := m.session.Subscribe(m.config.SensorCharacteristic, m.pipeline.HandleNotification)
	if err != nil {
		ui.Warning("Unable to subscribe to sensor notifications: %v", err)
		m.release()
		m.sleepBackoff(ctx)
		return Scanning
	}
	return Streaming
}

func (m *Manager) stream(ctx context.Context) Phase {
	if m.connects.Add(1) > 1 {
		ui.Success("Reconnected to %s", m.peripheral.Address)
	} else {
		ui.Success("Streaming from %s", m.peripheral.Address)
	}
	m.backoff = m.config.Backoff.Min

	ticker := m.clock.Ticker(m.config.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Disconnected
		case <-ticker.C:
			if !m.session.IsConnected() {
				ui.Warning("Lost connection to %s", m.peripheral.Address)
				return Disconnected
			}
			now := m.clock.Now()
			command, write := m.pipeline.Tick(now)
			if !write {
				continue
			}
			if err := m.session.Write(m.config.ActuatorCharacteristic, command); err != nil {
				m.writeFailures.Add(1)
				ui.Warning("Unable to write actuator command: %v", err)
				return Disconnected
			}
			m.pipeline.Commit(now)
			m.writes.Add(1)
		}
	}
}

func (m *Manager) disconnect(ctx context.Context) Phase {
	m.release()
	m.sleepBackoff(ctx)
	return Scanning
}

// release unsubscribes and disconnects the current session, if any
func (m *Manager) release() {
	if m.session == nil {
		return
	}
	if err := m.session.Unsubscribe(m.config.SensorCharacteristic); err != nil {
		ui.Debug("Unable to unsubscribe: %v", err)
	}
	if err := m.session.Disconnect(); err != nil {
		ui.Debug("Unable to disconnect: %v", err)
	}
	m.session = nil
}

// sleepBackoff waits for the current backoff duration or until ctx is cancelled,
// then grows the backoff for the next failure
func (m *Manager) sleepBackoff(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	m.backoffs.Add(1)
	m.update(func(state *SessionState) {
		state.Backoff = m.backoff
	})
	ui.Debug("Retrying in %s", m.backoff)

	timer := m.clock.Timer(m.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}

	m.backoff = m.nextBackoff()
}

func (m *Manager) nextBackoff() time.Duration {
	next := time.Duration(float64(m.backoff) * m.config.Backoff.Multiplier)
	return util.Coerce(next, m.config.Backoff.Min, m.config.Backoff.Max)
}

func (m *Manager) setPhase(phase Phase) {
	m.update(func(state *SessionState) {
		if state.Phase != phase {
			ui.Debug("Connection phase: %s -> %s", state.Phase, phase)
			state.Phase = phase
			state.Since = m.clock.Now()
		}
		state.Backoff = 0
	})
}

func (m *Manager) update(f func(state *SessionState)) {
	state, ok := m.state.Load()
	if !ok {
		state.Since = m.clock.Now()
	}
	f(&state)
	state.DeviceName = m.config.DeviceName
	state.SessionId = m.sessionId
	state.Address = ""
	if m.peripheral != nil {
		state.Address = m.peripheral.Address
	}
	m.state.Store(state)
}

// State returns the current session state, safe for concurrent use
func (m *Manager) State() SessionState {
	state, _ := m.state.Load()
	return state
}

// Counters returns the current link counters, safe for concurrent use
func (m *Manager) Counters() Counters {
	connects := m.connects.Load()
	reconnects := uint64(0)
	if connects > 1 {
		reconnects = connects - 1
	}
	return Counters{
		Connects:      connects,
		Reconnects:    reconnects,
		Backoffs:      m.backoffs.Load(),
		Writes:        m.writes.Load(),
		WriteFailures: m.writeFailures.Load(),
	}
}
