package configuration

import "time"

const (
	TransportBle       = "ble"
	TransportFile      = "file"
	TransportSimulated = "simulated"
)

type ConnectionConfig struct {
	// Transport selects the link implementation, one of: ble | file | simulated
	Transport string `json:"transport"`
	// DeviceName is the advertised name of the sensor peripheral
	DeviceName string `json:"deviceName"`

	ServiceUuid            string `json:"serviceUuid"`
	SensorCharacteristic   string `json:"sensorCharacteristic"`
	ActuatorCharacteristic string `json:"actuatorCharacteristic"`

	ScanTimeout time.Duration `json:"scanTimeout"`
	// TickRate is the period of the control loop while streaming
	TickRate time.Duration `json:"tickRate"`
	Backoff  BackoffConfig `json:"backoff"`

	File      FileTransportConfig      `json:"file"`
	Simulated SimulatedTransportConfig `json:"simulated"`
}

// BackoffConfig bounds the delay inserted between reconnect attempts.
// A Multiplier of 1 results in a fixed backoff of Min.
type BackoffConfig struct {
	Min        time.Duration `json:"min"`
	Max        time.Duration `json:"max"`
	Multiplier float64       `json:"multiplier"`
}

type FileTransportConfig struct {
	// Path is a directory containing a "sensor" and an "actuator" file
	Path     string        `json:"path"`
	PollRate time.Duration `json:"pollRate"`
}

type SimulatedTransportConfig struct {
	AmbientLux   float64       `json:"ambientLux"`
	Noise        float64       `json:"noise"`
	NotifyRate   time.Duration `json:"notifyRate"`
	FailConnects int           `json:"failConnects"`
	// DropRate is the probability per notification that the simulated link drops
	DropRate float64 `json:"dropRate"`
}
