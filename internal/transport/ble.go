package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/ui"
	cmap "github.com/orcaman/concurrent-map/v2"
	"tinygo.org/x/bluetooth"
)

// BleTransport connects to the peripheral using the default bluetooth adapter of the host.
// The adapter is enabled by the first Scan, a failure is retried on the next one.
type BleTransport struct {
	config  configuration.ConnectionConfig
	adapter *bluetooth.Adapter
	enable  func() error
	enabled bool

	serviceUuid bluetooth.UUID
	// characteristic uuid string -> parsed uuid
	characteristics map[string]bluetooth.UUID

	// device address -> connection state, maintained by the adapter connect handler
	connected cmap.ConcurrentMap[string, bool]

	mu        sync.Mutex
	addresses map[string]bluetooth.Address
}

func NewBleTransport(config configuration.ConnectionConfig) (*BleTransport, error) {
	serviceUuid, err := bluetooth.ParseUUID(config.ServiceUuid)
	if err != nil {
		return nil, fmt.Errorf("invalid service uuid '%s': %w", config.ServiceUuid, err)
	}
	characteristics := map[string]bluetooth.UUID{}
	for _, c := range []string{config.SensorCharacteristic, config.ActuatorCharacteristic} {
		uuid, err := bluetooth.ParseUUID(c)
		if err != nil {
			return nil, fmt.Errorf("invalid characteristic uuid '%s': %w", c, err)
		}
		characteristics[c] = uuid
	}

	adapter := bluetooth.DefaultAdapter
	return &BleTransport{
		config:          config,
		adapter:         adapter,
		enable:          adapter.Enable,
		serviceUuid:     serviceUuid,
		characteristics: characteristics,
		connected:       cmap.New[bool](),
		addresses:       map[string]bluetooth.Address{},
	}, nil
}

func (t *BleTransport) ensureEnabled() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.enabled {
		return nil
	}
	if err := t.enable(); err != nil {
		return fmt.Errorf("unable to enable bluetooth adapter: %w", err)
	}
	t.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		address := device.Address.String()
		ui.Debug("Bluetooth device %s connected: %v", address, connected)
		t.connected.Set(address, connected)
	})
	t.enabled = true
	return nil
}

func (t *BleTransport) Scan(ctx context.Context, name string, timeout time.Duration) (*Peripheral, error) {
	if err := t.ensureEnabled(); err != nil {
		return nil, wrap("scan", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	found := make(chan bluetooth.ScanResult, 1)
	scanErr := make(chan error, 1)
	go func() {
		scanErr <- t.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if result.LocalName() != name {
				return
			}
			select {
			case found <- result:
			default:
			}
			_ = adapter.StopScan()
		})
	}()

	select {
	case result := <-found:
		<-scanErr
		address := result.Address.String()
		t.mu.Lock()
		t.addresses[address] = result.Address
		t.mu.Unlock()
		return &Peripheral{Name: name, Address: address}, nil
	case err := <-scanErr:
		return nil, wrap("scan", err)
	case <-ctx.Done():
		_ = t.adapter.StopScan()
		<-scanErr
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, wrap("scan", ctx.Err())
	}
}

func (t *BleTransport) Connect(ctx context.Context, peripheral Peripheral) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("connect", err)
	}

	t.mu.Lock()
	address, ok := t.addresses[peripheral.Address]
	t.mu.Unlock()
	if !ok {
		return nil, wrap("connect", fmt.Errorf("unknown peripheral %s, scan first", peripheral.Address))
	}

	device, err := t.adapter.Connect(address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, wrap("connect", err)
	}
	t.connected.Set(peripheral.Address, true)

	session := &bleSession{
		transport:       t,
		address:         peripheral.Address,
		device:          device,
		characteristics: map[string]bluetooth.DeviceCharacteristic{},
	}
	if err := session.discover(); err != nil {
		_ = device.Disconnect()
		return nil, wrap("connect", err)
	}
	return session, nil
}

type bleSession struct {
	transport *BleTransport
	address   string
	device    bluetooth.Device

	characteristics map[string]bluetooth.DeviceCharacteristic
}

func (s *bleSession) discover() error {
	services, err := s.device.DiscoverServices([]bluetooth.UUID{s.transport.serviceUuid})
	if err != nil {
		return fmt.Errorf("service discovery: %w", err)
	}
	if len(services) <= 0 {
		return fmt.Errorf("service %s not found", s.transport.config.ServiceUuid)
	}

	for name, uuid := range s.transport.characteristics {
		characteristics, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{uuid})
		if err != nil {
			return fmt.Errorf("characteristic discovery: %w", err)
		}
		if len(characteristics) <= 0 {
			return fmt.Errorf("characteristic %s not found", name)
		}
		s.characteristics[name] = characteristics[0]
	}
	return nil
}

func (s *bleSession) characteristic(name string) (bluetooth.DeviceCharacteristic, error) {
	c, ok := s.characteristics[name]
	if !ok {
		return c, fmt.Errorf("unknown characteristic %s", name)
	}
	return c, nil
}

func (s *bleSession) IsConnected() bool {
	connected, ok := s.transport.connected.Get(s.address)
	return ok && connected
}

func (s *bleSession) Subscribe(characteristic string, handler NotificationHandler) error {
	c, err := s.characteristic(characteristic)
	if err != nil {
		return wrap("subscribe", err)
	}
	if !s.IsConnected() {
		return wrap("subscribe", ErrNotConnected)
	}
	return wrap("subscribe", c.EnableNotifications(func(buf []byte) {
		data := make([]byte, len(buf))
		copy(data, buf)
		handler(data)
	}))
}

func (s *bleSession) Unsubscribe(characteristic string) error {
	c, err := s.characteristic(characteristic)
	if err != nil {
		return wrap("unsubscribe", err)
	}
	return wrap("unsubscribe", c.EnableNotifications(nil))
}

func (s *bleSession) Write(characteristic string, data []byte) error {
	c, err := s.characteristic(characteristic)
	if err != nil {
		return wrap("write", err)
	}
	if !s.IsConnected() {
		return wrap("write", ErrNotConnected)
	}
	_, err = c.WriteWithoutResponse(data)
	return wrap("write", err)
}

func (s *bleSession) Disconnect() error {
	s.transport.connected.Set(s.address, false)
	return wrap("disconnect", s.device.Disconnect())
}
