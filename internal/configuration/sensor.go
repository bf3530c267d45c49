package configuration

type SensorConfig struct {
	// Channels is the number of light sensors reported per notification (1 or 2)
	Channels int `json:"channels"`
	// ControlChannel is the index of the channel fed into the controller
	ControlChannel int `json:"controlChannel"`

	AdcResolution     int     `json:"adcResolution"`
	VRef              float64 `json:"vRef"`
	RFixed            float64 `json:"rFixed"`
	A                 float64 `json:"a"`
	B                 float64 `json:"b"`
	SingularityMargin float64 `json:"singularityMargin"`
	LuxMax            float64 `json:"luxMax"`

	RollingWindowSize int `json:"rollingWindowSize"`
}
