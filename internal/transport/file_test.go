package transport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFileTransport(path string) *FileTransport {
	config := createConnectionConfig(configuration.TransportFile)
	config.File.Path = path
	return NewFileTransport(config, clock.New())
}

func TestFileTransport_ScanFindsDirectory(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	transport := createFileTransport(dir)

	// WHEN
	found, err := transport.Scan(context.Background(), "ESP32_LightSensor_BLE", time.Second)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, &Peripheral{Name: "ESP32_LightSensor_BLE", Address: dir}, found)
}

func TestFileTransport_ScanTimeout(t *testing.T) {
	// GIVEN
	transport := createFileTransport(filepath.Join(t.TempDir(), "missing"))

	// WHEN
	found, err := transport.Scan(context.Background(), "ESP32_LightSensor_BLE", 30*time.Millisecond)

	// THEN
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestFileTransport_ScanCancelled(t *testing.T) {
	// GIVEN
	transport := createFileTransport(filepath.Join(t.TempDir(), "missing"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	found, err := transport.Scan(ctx, "ESP32_LightSensor_BLE", time.Second)

	// THEN
	assert.Nil(t, found)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFileTransport_ConnectMissingDirectory(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "missing")
	transport := createFileTransport(path)

	// WHEN
	_, err := transport.Connect(context.Background(), Peripheral{Address: path})

	// THEN
	assert.Error(t, err)
}

func TestFileTransport_Notifications(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, SensorFileName), []byte("3412ff0f\n"), 0644)
	require.NoError(t, err)
	transport := createFileTransport(dir)
	session, err := transport.Connect(context.Background(), Peripheral{Address: dir})
	require.NoError(t, err)
	recorder := &frameRecorder{}

	// WHEN
	err = session.Subscribe(sensorCharacteristic, recorder.handle)

	// THEN
	assert.NoError(t, err)
	assert.Eventually(t, func() bool { return recorder.count() >= 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []byte{0x34, 0x12, 0xff, 0x0f}, recorder.last())
	assert.NoError(t, session.Disconnect())
}

func TestFileTransport_Write(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	transport := createFileTransport(dir)
	session, err := transport.Connect(context.Background(), Peripheral{Address: dir})
	require.NoError(t, err)

	// WHEN
	err = session.Write(actuatorCharacteristic, []byte{42})

	// THEN
	assert.NoError(t, err)
	value, err := util.ReadIntFromFile(filepath.Join(dir, ActuatorFileName))
	assert.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestFileTransport_DisconnectWhenDirectoryRemoved(t *testing.T) {
	// GIVEN
	dir := filepath.Join(t.TempDir(), "device")
	require.NoError(t, os.Mkdir(dir, 0755))
	transport := createFileTransport(dir)
	session, err := transport.Connect(context.Background(), Peripheral{Address: dir})
	require.NoError(t, err)
	assert.True(t, session.IsConnected())

	// WHEN
	require.NoError(t, os.Remove(dir))

	// THEN
	assert.False(t, session.IsConnected())
	err = session.Write(actuatorCharacteristic, []byte{42})
	assert.True(t, errors.Is(err, ErrNotConnected))
}
