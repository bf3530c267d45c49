package configuration

const (
	ActuatorPositionMin = 0
	ActuatorPositionMax = 180
)

type ActuatorConfig struct {
	Min int `json:"min"`
	Max int `json:"max"`
	// StepLimit is the max change of the commanded position per tick, 0 disables the limit
	StepLimit       int `json:"stepLimit"`
	InitialPosition int `json:"initialPosition"`
}
