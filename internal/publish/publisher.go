package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lux2go/lux2go/internal/actuator"
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/connection"
	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/lux2go/lux2go/internal/ui"
)

const (
	statusOnline  = "online"
	statusOffline = "offline"

	publishTimeout = 5 * time.Second
)

// Client is the subset of mqtt.Client used by the Publisher
type Client interface {
	Connect() mqtt.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type SessionSource interface {
	State() connection.SessionState
}

type ActuatorSource interface {
	ActuatorState() actuator.State
}

// Publisher periodically publishes the latest values to an MQTT broker
type Publisher struct {
	config   configuration.MqttConfig
	client   Client
	channels []*sensors.Channel
	session  SessionSource
	actuator ActuatorSource
	clock    clock.Clock
}

// NewClient creates a paho client for the given configuration,
// the broker marks the daemon offline when the connection is lost
func NewClient(config configuration.MqttConfig) mqtt.Client {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientId)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetWill(statusTopic(config.Topic), statusOffline, 0, true)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		ui.Info("Connected to MQTT broker %s", config.Broker)
		c.Publish(statusTopic(config.Topic), 0, true, statusOnline)
	})
	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		ui.Warning("Lost connection to MQTT broker: %v", err)
	})
	return mqtt.NewClient(opts)
}

func NewPublisher(
	config configuration.MqttConfig,
	client Client,
	channels []*sensors.Channel,
	session SessionSource,
	actuator ActuatorSource,
	clk clock.Clock,
) *Publisher {
	return &Publisher{
		config:   config,
		client:   client,
		channels: channels,
		session:  session,
		actuator: actuator,
		clock:    clk,
	}
}

// Run connects to the broker and publishes every publishRate until ctx is cancelled
func (p *Publisher) Run(ctx context.Context) error {
	if token := p.client.Connect(); token.WaitTimeout(publishTimeout) && token.Error() != nil {
		return fmt.Errorf("MQTT connection failed: %w", token.Error())
	}

	ticker := p.clock.Ticker(p.config.PublishRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ui.Info("Stopping MQTT publisher...")
			_ = p.publish(statusTopic(p.config.Topic), true, statusOffline)
			p.client.Disconnect(250)
			return nil
		case <-ticker.C:
			if err := p.PublishOnce(); err != nil {
				ui.Warning("Unable to publish to MQTT: %v", err)
			}
		}
	}
}

// PublishOnce publishes the current state of all channels, the actuator and the session
func (p *Publisher) PublishOnce() error {
	for _, channel := range p.channels {
		snapshot := channel.Snapshot()
		if !snapshot.Valid {
			continue
		}
		topic := fmt.Sprintf("%s/channel/%s", p.config.Topic, snapshot.Name)
		if err := p.publishJson(topic, false, snapshot); err != nil {
			return err
		}
	}
	if err := p.publishJson(p.config.Topic+"/actuator", true, p.actuator.ActuatorState()); err != nil {
		return err
	}
	return p.publishJson(p.config.Topic+"/session", true, p.session.State())
}

func (p *Publisher) publishJson(topic string, retained bool, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return p.publish(topic, retained, payload)
}

func (p *Publisher) publish(topic string, retained bool, payload interface{}) error {
	token := p.client.Publish(topic, 0, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timeout publishing to %s", topic)
	}
	return token.Error()
}

func statusTopic(topic string) string {
	return topic + "/status"
}
