package configuration

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if err := validateConnection(&config.Connection); err != nil {
		return err
	}
	if err := validateSensor(&config.Sensor); err != nil {
		return err
	}
	if err := validateFilter(&config.Filter); err != nil {
		return err
	}
	if err := validateController(&config.Controller); err != nil {
		return err
	}
	if err := validateActuator(&config.Actuator); err != nil {
		return err
	}
	return validateOutputs(config)
}

func validateConnection(config *ConnectionConfig) error {
	supportedTransports := []string{TransportBle, TransportFile, TransportSimulated}
	if !slices.Contains(supportedTransports, config.Transport) {
		return fmt.Errorf("connection: unsupported transport '%s', use one of: %s", config.Transport, strings.Join(supportedTransports, " | "))
	}
	if len(config.DeviceName) <= 0 {
		return fmt.Errorf("connection: missing deviceName")
	}
	if config.Transport == TransportBle {
		if len(config.SensorCharacteristic) <= 0 {
			return fmt.Errorf("connection: missing sensorCharacteristic")
		}
		if len(config.ActuatorCharacteristic) <= 0 {
			return fmt.Errorf("connection: missing actuatorCharacteristic")
		}
	}
	if config.Transport == TransportFile && len(config.File.Path) <= 0 {
		return fmt.Errorf("connection: file transport requires a path")
	}
	if config.ScanTimeout <= 0 {
		return fmt.Errorf("connection: scanTimeout must be > 0")
	}
	if config.TickRate <= 0 {
		return fmt.Errorf("connection: tickRate must be > 0")
	}
	if config.Backoff.Min <= 0 {
		return fmt.Errorf("connection: backoff min must be > 0")
	}
	if config.Backoff.Max < config.Backoff.Min {
		return fmt.Errorf("connection: backoff max (%s) must be >= min (%s)", config.Backoff.Max, config.Backoff.Min)
	}
	if config.Backoff.Multiplier < 1 {
		return fmt.Errorf("connection: backoff multiplier must be >= 1, got %g", config.Backoff.Multiplier)
	}
	return nil
}

func validateSensor(config *SensorConfig) error {
	if config.Channels != 1 && config.Channels != 2 {
		return fmt.Errorf("sensor: channels must be 1 or 2, got %d", config.Channels)
	}
	if config.ControlChannel < 0 || config.ControlChannel >= config.Channels {
		return fmt.Errorf("sensor: controlChannel %d out of range, must be in [0..%d]", config.ControlChannel, config.Channels-1)
	}
	if config.AdcResolution <= 1 {
		return fmt.Errorf("sensor: adcResolution must be > 1")
	}
	if config.VRef <= 0 {
		return fmt.Errorf("sensor: vRef must be > 0")
	}
	if config.RFixed <= 0 {
		return fmt.Errorf("sensor: rFixed must be > 0")
	}
	if config.A <= 0 || config.B <= 0 {
		return fmt.Errorf("sensor: calibration coefficients a and b must be > 0")
	}
	if config.SingularityMargin <= 0 || config.SingularityMargin >= config.VRef/2 {
		return fmt.Errorf("sensor: singularityMargin must be in (0, %g)", config.VRef/2)
	}
	if config.LuxMax <= 0 {
		return fmt.Errorf("sensor: luxMax must be > 0")
	}
	if config.RollingWindowSize <= 0 {
		return fmt.Errorf("sensor: rollingWindowSize must be > 0")
	}
	return nil
}

func validateFilter(config *FilterConfig) error {
	if config.Order < 1 {
		return fmt.Errorf("filter: order must be >= 1")
	}
	if config.SampleRate <= 0 {
		return fmt.Errorf("filter: sampleRate must be > 0")
	}
	if config.Cutoff <= 0 || config.Cutoff >= config.SampleRate/2 {
		return fmt.Errorf("filter: cutoff must be in (0, %g) for sampleRate %g", config.SampleRate/2, config.SampleRate)
	}
	if config.HistorySize < 3*config.Order {
		return fmt.Errorf("filter: historySize must be >= %d (3 x order)", 3*config.Order)
	}
	return nil
}

func validateController(config *ControllerConfig) error {
	if config.P == 0 && config.I == 0 && config.D == 0 {
		return fmt.Errorf("controller: all PID constants are zero")
	}
	if config.OutputMin >= config.OutputMax {
		return fmt.Errorf("controller: outputMin (%g) must be < outputMax (%g)", config.OutputMin, config.OutputMax)
	}
	if config.Band.Low > config.Band.High {
		return fmt.Errorf("controller: band %s is inverted", config.Band)
	}
	return nil
}

func validateActuator(config *ActuatorConfig) error {
	if config.Min < ActuatorPositionMin || config.Max > ActuatorPositionMax {
		return fmt.Errorf("actuator: range [%d, %d] exceeds [%d, %d]", config.Min, config.Max, ActuatorPositionMin, ActuatorPositionMax)
	}
	if config.Min >= config.Max {
		return fmt.Errorf("actuator: min (%d) must be < max (%d)", config.Min, config.Max)
	}
	if config.StepLimit < 0 {
		return fmt.Errorf("actuator: stepLimit must be >= 0")
	}
	if config.InitialPosition < config.Min || config.InitialPosition > config.Max {
		return fmt.Errorf("actuator: initialPosition %d outside of [%d, %d]", config.InitialPosition, config.Min, config.Max)
	}
	return nil
}

func validateOutputs(config *Configuration) error {
	if config.Mqtt.Enabled {
		if len(config.Mqtt.Broker) <= 0 {
			return fmt.Errorf("mqtt: missing broker")
		}
		if config.Mqtt.PublishRate <= 0 {
			return fmt.Errorf("mqtt: publishRate must be > 0")
		}
	}
	if config.Api.Enabled && (config.Api.Port <= 0 || config.Api.Port >= 65535) {
		return fmt.Errorf("api: invalid port %d", config.Api.Port)
	}
	if config.Persistence.SnapshotRate <= 0 {
		return fmt.Errorf("persistence: snapshotRate must be > 0")
	}
	return nil
}
