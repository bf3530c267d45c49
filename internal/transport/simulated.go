package transport

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/lux2go/lux2go/internal/util"
)

const (
	simulatedAddress = "00:00:00:00:00:00"
	// fraction of the gap to the equilibrium illumination closed per notification
	roomResponse = 0.2
	// illumination with a fully closed blind, relative to ambient
	roomLeakage = 0.05
)

var errSimulatedConnect = errors.New("simulated connect failure")

// SimulatedTransport is a room with a single blind. The blind position
// scales the ambient light seen by the first sensor channel, the second channel
// sees a fixed share of the ambient light.
type SimulatedTransport struct {
	config configuration.ConnectionConfig
	sensor configuration.SensorConfig
	clock  clock.Clock

	mu           sync.Mutex
	random       *rand.Rand
	failConnects int
	lux          float64
	position     int
}

func NewSimulatedTransport(
	config configuration.ConnectionConfig,
	sensor configuration.SensorConfig,
	clk clock.Clock,
	seed int64,
) *SimulatedTransport {
	return &SimulatedTransport{
		config:       config,
		sensor:       sensor,
		clock:        clk,
		random:       rand.New(rand.NewSource(seed)),
		failConnects: config.Simulated.FailConnects,
		lux:          config.Simulated.AmbientLux * roomLeakage,
	}
}

func (t *SimulatedTransport) Scan(ctx context.Context, name string, timeout time.Duration) (*Peripheral, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("scan", err)
	}
	if name != t.config.DeviceName {
		return nil, nil
	}
	return &Peripheral{Name: name, Address: simulatedAddress}, nil
}

func (t *SimulatedTransport) Connect(ctx context.Context, peripheral Peripheral) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("connect", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failConnects > 0 {
		t.failConnects--
		return nil, wrap("connect", errSimulatedConnect)
	}
	return &simulatedSession{
		transport: t,
		connected: true,
		stop:      make(chan struct{}),
	}, nil
}

// Position returns the current blind position
func (t *SimulatedTransport) Position() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// step advances the room model by one notification and returns the frame to send
// and whether the link dropped
func (t *SimulatedTransport) step() (frame []byte, drop bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ambient := t.config.Simulated.AmbientLux
	opening := util.Coerce(float64(t.position)/float64(configuration.ActuatorPositionMax/2), 0, 1)
	equilibrium := ambient * (roomLeakage + (1-roomLeakage)*opening)
	t.lux += (equilibrium - t.lux) * roomResponse

	readings := make([]uint16, t.sensor.Channels)
	for i := range readings {
		lux := t.lux
		if i > 0 {
			lux = ambient / 2
		}
		lux += t.random.NormFloat64() * t.config.Simulated.Noise
		readings[i] = luxToAdc(t.sensor, lux)
	}

	drop = t.config.Simulated.DropRate > 0 && t.random.Float64() < t.config.Simulated.DropRate
	return sensors.Encode(readings), drop
}

func (t *SimulatedTransport) move(position int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = position
}

// luxToAdc inverts the sensor conversion chain
func luxToAdc(config configuration.SensorConfig, lux float64) uint16 {
	if lux <= 0 {
		return 1
	}
	resistance := config.A / math.Pow(lux, config.B)
	voltage := config.RFixed * config.VRef / (resistance + config.RFixed)
	count := math.Round(voltage / config.VRef * float64(config.AdcResolution))
	return uint16(util.Coerce(count, 1, float64(config.AdcResolution-1)))
}

type simulatedSession struct {
	transport *SimulatedTransport

	mu         sync.Mutex
	connected  bool
	subscribed bool
	stop       chan struct{}
	wg         sync.WaitGroup
}

func (s *simulatedSession) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *simulatedSession) Subscribe(characteristic string, handler NotificationHandler) error {
	if characteristic != s.transport.config.SensorCharacteristic {
		return wrap("subscribe", fmt.Errorf("unknown characteristic %s", characteristic))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return wrap("subscribe", ErrNotConnected)
	}
	if s.subscribed {
		return nil
	}
	s.subscribed = true

	stop := s.stop
	ticker := s.transport.clock.Ticker(s.transport.config.Simulated.NotifyRate)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				frame, drop := s.transport.step()
				if drop {
					ui.Debug("Simulated link dropped")
					s.drop()
					return
				}
				handler(frame)
			}
		}
	}()
	return nil
}

func (s *simulatedSession) Unsubscribe(characteristic string) error {
	s.mu.Lock()
	if !s.subscribed {
		s.mu.Unlock()
		return nil
	}
	s.subscribed = false
	close(s.stop)
	s.stop = make(chan struct{})
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *simulatedSession) Write(characteristic string, data []byte) error {
	if characteristic != s.transport.config.ActuatorCharacteristic {
		return wrap("write", fmt.Errorf("unknown characteristic %s", characteristic))
	}
	if !s.IsConnected() {
		return wrap("write", ErrNotConnected)
	}
	if len(data) != 1 {
		return wrap("write", fmt.Errorf("expected a single byte, got %d", len(data)))
	}
	s.transport.move(int(data[0]))
	return nil
}

func (s *simulatedSession) Disconnect() error {
	_ = s.Unsubscribe(s.transport.config.SensorCharacteristic)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

func (s *simulatedSession) drop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
}
