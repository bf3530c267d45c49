package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lux2go/lux2go/internal/configuration"
)

var ErrNotConnected = errors.New("not connected")

// Error is returned by all transport operations, wrapping the underlying cause
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Peripheral is a device found by a scan
type Peripheral struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// NotificationHandler is called with the payload of every notification.
// It is called from a transport owned goroutine.
type NotificationHandler func(data []byte)

// Transport is the lower level link to the sensor peripheral
type Transport interface {
	// Scan looks for a peripheral advertising the given name.
	// Returns nil without an error if nothing was found within timeout.
	Scan(ctx context.Context, name string, timeout time.Duration) (*Peripheral, error)
	// Connect opens a session to the given peripheral
	Connect(ctx context.Context, peripheral Peripheral) (Session, error)
}

// Session is an open connection to a peripheral
type Session interface {
	IsConnected() bool
	// Subscribe registers handler for notifications of the given characteristic
	Subscribe(characteristic string, handler NotificationHandler) error
	Unsubscribe(characteristic string) error
	Write(characteristic string, data []byte) error
	// Disconnect releases the session, it may be called more than once
	Disconnect() error
}

// NewTransport creates the transport selected in the given configuration
func NewTransport(config configuration.ConnectionConfig, sensor configuration.SensorConfig) (Transport, error) {
	switch config.Transport {
	case configuration.TransportBle:
		return NewBleTransport(config)
	case configuration.TransportFile:
		return NewFileTransport(config, clock.New()), nil
	case configuration.TransportSimulated:
		return NewSimulatedTransport(config, sensor, clock.New(), time.Now().UnixNano()), nil
	default:
		return nil, fmt.Errorf("unsupported transport: %s", config.Transport)
	}
}
