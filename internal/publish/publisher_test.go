package publish

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lux2go/lux2go/internal/actuator"
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/connection"
	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	err error
}

func (t fakeToken) Wait() bool {
	return true
}

func (t fakeToken) WaitTimeout(time.Duration) bool {
	return true
}

func (t fakeToken) Done() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}

func (t fakeToken) Error() error {
	return t.err
}

type message struct {
	topic    string
	retained bool
	payload  []byte
}

type fakeClient struct {
	mu           sync.Mutex
	connectErr   error
	publishErr   error
	messages     []message
	disconnected bool
}

func (c *fakeClient) Connect() mqtt.Token {
	return fakeToken{err: c.connectErr}
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	var data []byte
	switch v := payload.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	}
	c.messages = append(c.messages, message{topic: topic, retained: retained, payload: data})
	return fakeToken{err: c.publishErr}
}

func (c *fakeClient) topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var result []string
	for _, m := range c.messages {
		result = append(result, m.topic)
	}
	return result
}

type fakeSources struct{}

func (f fakeSources) State() connection.SessionState {
	return connection.SessionState{Phase: connection.Streaming, SessionId: "abc"}
}

func (f fakeSources) ActuatorState() actuator.State {
	return actuator.State{Position: 42}
}

func createPublisher(client Client, clk clock.Clock) *Publisher {
	withData := sensors.NewChannel(0, 5)
	withData.PublishSample(sensors.PhysicalSample{Raw: 2048, Lux: 50})
	withoutData := sensors.NewChannel(1, 5)

	return NewPublisher(
		configuration.MqttConfig{Topic: "lux2go", PublishRate: time.Second},
		client,
		[]*sensors.Channel{withData, withoutData},
		fakeSources{},
		fakeSources{},
		clk,
	)
}

func TestPublisher_PublishOnce(t *testing.T) {
	// GIVEN
	client := &fakeClient{}
	p := createPublisher(client, clock.NewMock())

	// WHEN
	err := p.PublishOnce()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []string{"lux2go/channel/photo1", "lux2go/actuator", "lux2go/session"}, client.topics())

	var state actuator.State
	require.NoError(t, json.Unmarshal(client.messages[1].payload, &state))
	assert.Equal(t, 42, state.Position)
	assert.True(t, client.messages[1].retained)
}

func TestPublisher_PublishError(t *testing.T) {
	// GIVEN
	client := &fakeClient{publishErr: errors.New("broker gone")}
	p := createPublisher(client, clock.NewMock())

	// WHEN
	err := p.PublishOnce()

	// THEN
	assert.EqualError(t, err, "broker gone")
}

func TestPublisher_ConnectError(t *testing.T) {
	// GIVEN
	client := &fakeClient{connectErr: errors.New("refused")}
	p := createPublisher(client, clock.NewMock())

	// WHEN
	err := p.Run(context.Background())

	// THEN
	assert.EqualError(t, err, "MQTT connection failed: refused")
}

func TestPublisher_Run(t *testing.T) {
	// GIVEN
	mock := clock.NewMock()
	client := &fakeClient{}
	p := createPublisher(client, mock)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx)
	}()

	// WHEN
	assert.Eventually(t, func() bool {
		mock.Add(time.Second)
		return len(client.topics()) >= 3
	}, time.Second, time.Millisecond)
	cancel()

	// THEN
	assert.NoError(t, <-done)
	topics := client.topics()
	assert.Equal(t, "lux2go/status", topics[len(topics)-1])
	assert.True(t, client.disconnected)
}
