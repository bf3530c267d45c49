package configuration

type ControllerConfig struct {
	P float64 `json:"p"`
	I float64 `json:"i"`
	D float64 `json:"d"`

	SetPoint  float64 `json:"setPoint"`
	OutputMin float64 `json:"outputMin"`
	OutputMax float64 `json:"outputMax"`

	// Band is the acceptable illumination range, no correction is made inside of it
	Band Band `json:"band"`
}
