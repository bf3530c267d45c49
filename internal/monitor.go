package internal

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lux2go/lux2go/internal/actuator"
	"github.com/lux2go/lux2go/internal/persistence"
	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/lux2go/lux2go/internal/ui"
)

type ActuatorSource interface {
	ActuatorState() actuator.State
}

// SnapshotMonitor periodically persists the last commanded actuator position
// and the filtered history of all channels
type SnapshotMonitor struct {
	persistence persistence.Persistence
	channels    []*sensors.Channel
	actuator    ActuatorSource
	rate        time.Duration
	clock       clock.Clock

	lastSaved actuator.State
}

func NewSnapshotMonitor(
	p persistence.Persistence,
	channels []*sensors.Channel,
	actuator ActuatorSource,
	rate time.Duration,
	clk clock.Clock,
) *SnapshotMonitor {
	return &SnapshotMonitor{
		persistence: p,
		channels:    channels,
		actuator:    actuator,
		rate:        rate,
		clock:       clk,
	}
}

func (m *SnapshotMonitor) Run(ctx context.Context) error {
	ticker := m.clock.Ticker(m.rate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// save the final state on shutdown
			if err := m.Snapshot(); err != nil {
				ui.Warning("Unable to save snapshot: %v", err)
			}
			return nil
		case <-ticker.C:
			if err := m.Snapshot(); err != nil {
				ui.Warning("Unable to save snapshot: %v", err)
			}
		}
	}
}

// Snapshot saves the actuator position, if it changed since the last snapshot,
// and the current history of every channel
func (m *SnapshotMonitor) Snapshot() error {
	state := m.actuator.ActuatorState()
	// a zero time means nothing has been commanded yet
	if !state.Time.IsZero() && state != m.lastSaved {
		err := m.persistence.SaveActuatorPosition(persistence.ActuatorRecord{
			Position: state.Position,
			Time:     state.Time,
		})
		if err != nil {
			return err
		}
		m.lastSaved = state
	}

	for _, channel := range m.channels {
		history := channel.History()
		if len(history) <= 0 {
			continue
		}
		err := m.persistence.SaveHistory(persistence.HistorySnapshot{
			Channel: channel.Name,
			Time:    m.clock.Now(),
			Values:  history,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
