package transport

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/lux2go/lux2go/internal/util"
)

const (
	SensorFileName   = "sensor"
	ActuatorFileName = "actuator"
)

// FileTransport talks to a peripheral bridged into a directory by another process.
// The bridge writes every notification as a hex string into the "sensor" file,
// actuator positions are written as a decimal number into the "actuator" file.
// The peripheral is discoverable as long as the directory exists.
type FileTransport struct {
	config configuration.ConnectionConfig
	clock  clock.Clock
}

func NewFileTransport(config configuration.ConnectionConfig, clk clock.Clock) *FileTransport {
	return &FileTransport{
		config: config,
		clock:  clk,
	}
}

func (t *FileTransport) Scan(ctx context.Context, name string, timeout time.Duration) (*Peripheral, error) {
	ctx, cancel := t.clock.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := t.clock.Ticker(t.config.File.PollRate)
	defer ticker.Stop()

	for {
		if isDirectory(t.config.File.Path) {
			return &Peripheral{Name: name, Address: t.config.File.Path}, nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, nil
			}
			return nil, wrap("scan", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (t *FileTransport) Connect(ctx context.Context, peripheral Peripheral) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("connect", err)
	}
	if !isDirectory(peripheral.Address) {
		return nil, wrap("connect", fmt.Errorf("device directory %s does not exist", peripheral.Address))
	}
	return &fileSession{
		transport: t,
		path:      peripheral.Address,
		stop:      make(chan struct{}),
	}, nil
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

type fileSession struct {
	transport *FileTransport
	path      string

	mu           sync.Mutex
	disconnected bool
	subscribed   bool
	stop         chan struct{}
	wg           sync.WaitGroup
}

func (s *fileSession) IsConnected() bool {
	s.mu.Lock()
	disconnected := s.disconnected
	s.mu.Unlock()
	return !disconnected && isDirectory(s.path)
}

func (s *fileSession) file(characteristic string) (string, error) {
	switch characteristic {
	case s.transport.config.SensorCharacteristic:
		return filepath.Join(s.path, SensorFileName), nil
	case s.transport.config.ActuatorCharacteristic:
		return filepath.Join(s.path, ActuatorFileName), nil
	default:
		return "", fmt.Errorf("unknown characteristic %s", characteristic)
	}
}

func (s *fileSession) Subscribe(characteristic string, handler NotificationHandler) error {
	path, err := s.file(characteristic)
	if err != nil {
		return wrap("subscribe", err)
	}
	if !s.IsConnected() {
		return wrap("subscribe", ErrNotConnected)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribed {
		return nil
	}
	s.subscribed = true

	stop := s.stop
	ticker := s.transport.clock.Ticker(s.transport.config.File.PollRate)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		var lastModified time.Time
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				info, err := os.Stat(path)
				if err != nil || !info.ModTime().After(lastModified) {
					continue
				}
				lastModified = info.ModTime()

				text, err := util.ReadStringFromFile(path)
				if err != nil || len(text) <= 0 {
					continue
				}
				data, err := hex.DecodeString(text)
				if err != nil {
					ui.Warning("Ignoring invalid sensor file content '%s': %v", text, err)
					continue
				}
				handler(data)
			}
		}
	}()
	return nil
}

func (s *fileSession) Unsubscribe(characteristic string) error {
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

func (s *fileSession) Write(characteristic string, data []byte) error {
	path, err := s.file(characteristic)
	if err != nil {
		return wrap("write", err)
	}
	if !s.IsConnected() {
		return wrap("write", ErrNotConnected)
	}
	if len(data) != 1 {
		return wrap("write", fmt.Errorf("expected a single byte, got %d", len(data)))
	}
	return wrap("write", util.WriteIntToFileAtomic(int(data[0]), path))
}

func (s *fileSession) Disconnect() error {
	_ = s.Unsubscribe(s.transport.config.SensorCharacteristic)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnected = true
	return nil
}
