package controller

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lux2go/lux2go/internal/actuator"
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/control_loop"
	"github.com/lux2go/lux2go/internal/filter"
	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/lux2go/lux2go/internal/util"
)

// reading is the latest decoded frame, sequence increases with every frame
type reading struct {
	sequence uint64
	values   []uint16
	time     time.Time
}

// ControlLoop runs the pipeline decode -> convert -> filter -> pid -> dispatch.
// HandleNotification may be called from any goroutine, everything else
// must be called from the goroutine driving the loop.
type ControlLoop struct {
	clock clock.Clock

	channelCount   int
	controlChannel int

	converter  *sensors.Converter
	channels   []*sensors.Channel
	smoothers  []*filter.Smoother
	pid        *control_loop.PidLoop
	dispatcher *actuator.Dispatcher

	// notifyMu serializes concurrent callbacks, so latest only ever moves forward
	notifyMu        sync.Mutex
	sequence        uint64
	latest          util.Cell[reading]
	lastSequence    uint64
	malformedFrames atomic.Uint64
}

// NewControlLoop creates a ControlLoop publishing to the given channels,
// one channel for each configured sensor channel is required
func NewControlLoop(
	config configuration.Configuration,
	channels []*sensors.Channel,
	initialPosition int,
	clk clock.Clock,
) (*ControlLoop, error) {
	if len(channels) != config.Sensor.Channels {
		return nil, fmt.Errorf("expected %d channels, got %d", config.Sensor.Channels, len(channels))
	}

	var smoothers []*filter.Smoother
	for range channels {
		smoother, err := filter.NewSmoother(config.Filter)
		if err != nil {
			return nil, err
		}
		smoothers = append(smoothers, smoother)
	}

	pid := control_loop.NewPidLoopFromConfig(config.Controller)

	return &ControlLoop{
		clock:          clk,
		channelCount:   config.Sensor.Channels,
		controlChannel: config.Sensor.ControlChannel,
		converter:      sensors.NewConverter(config.Sensor),
		channels:       channels,
		smoothers:      smoothers,
		pid:            pid,
		dispatcher:     actuator.NewDispatcher(config.Controller.Band, pid, config.Actuator, initialPosition),
	}, nil
}

// HandleNotification decodes a sensor frame and stores it as the latest reading.
// Malformed frames are counted and dropped.
func (l *ControlLoop) HandleNotification(data []byte) {
	values, err := sensors.Decode(data, l.channelCount)
	if err != nil {
		l.malformedFrames.Add(1)
		ui.Warning("Dropping sensor frame: %v", err)
		return
	}

	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	l.sequence++
	l.latest.Store(reading{
		sequence: l.sequence,
		values:   values,
		time:     l.clock.Now(),
	})
}

// Tick processes the latest reading, if a new one arrived since the last tick.
// Returns the encoded actuator command if the actuator has to be moved.
func (l *ControlLoop) Tick(now time.Time) (command []byte, write bool) {
	latest, ok := l.latest.Load()
	if !ok || latest.sequence == l.lastSequence {
		return nil, false
	}
	l.lastSequence = latest.sequence

	var controlLux float64
	for i, raw := range latest.values {
		lux := l.converter.AdcToLux(raw)
		channel := l.channels[i]
		channel.PublishSample(sensors.PhysicalSample{
			Channel: i,
			Raw:     raw,
			Lux:     lux,
			Time:    latest.time,
		})

		history, err := l.smoothers[i].Add(lux)
		if err != nil {
			ui.Error("Unable to filter %s: %v", channel.Name, err)
			history = []float64{lux}
		}
		filtered := history[len(history)-1]
		channel.PublishFiltered(sensors.FilteredSample{Lux: filtered, Time: now})
		channel.PublishHistory(history)

		if i == l.controlChannel {
			controlLux = filtered
		}
	}

	position, write := l.dispatcher.Dispatch(controlLux, now)
	if !write {
		return nil, false
	}
	command, err := actuator.EncodePosition(position)
	if err != nil {
		ui.Error("Unable to encode actuator position: %v", err)
		return nil, false
	}
	return command, true
}

// Commit confirms that the command returned by the last Tick was written to the actuator
func (l *ControlLoop) Commit(now time.Time) {
	l.dispatcher.Commit(now)
}

// ActuatorState returns the last commanded actuator state, safe for concurrent use
func (l *ControlLoop) ActuatorState() actuator.State {
	return l.dispatcher.State()
}

// MalformedFrames returns the number of dropped frames, safe for concurrent use
func (l *ControlLoop) MalformedFrames() uint64 {
	return l.malformedFrames.Load()
}
