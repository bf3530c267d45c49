package sensors

import (
	"math"

	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/util"
)

// Converter maps raw ADC counts of a photoresistor voltage divider to illuminance.
// Every step saturates instead of failing, singularities map to 0 lux.
type Converter struct {
	// Resolution is the full-scale ADC count
	Resolution int
	// VRef is the reference voltage of the ADC in volts
	VRef float64
	// RFixed is the fixed resistor of the voltage divider in ohms
	RFixed float64
	// A and B are the coefficients of lux = (A / R) ^ (1 / B)
	A float64
	B float64
	// Margin is the distance in volts to 0 and VRef below which the
	// resistance is considered singular
	Margin float64
	LuxMax float64
}

func NewConverter(config configuration.SensorConfig) *Converter {
	return &Converter{
		Resolution: config.AdcResolution,
		VRef:       config.VRef,
		RFixed:     config.RFixed,
		A:          config.A,
		B:          config.B,
		Margin:     config.SingularityMargin,
		LuxMax:     config.LuxMax,
	}
}

// AdcToVoltage clamps the count to [1, resolution-1] to stay clear of both rails
func (c *Converter) AdcToVoltage(count uint16) float64 {
	clamped := util.Coerce(int(count), 1, c.Resolution-1)
	return float64(clamped) / float64(c.Resolution) * c.VRef
}

// VoltageToResistance returns +Inf when the voltage is within Margin of either rail
func (c *Converter) VoltageToResistance(voltage float64) float64 {
	if voltage <= c.Margin || voltage >= c.VRef-c.Margin {
		return math.Inf(1)
	}
	return c.RFixed * (c.VRef - voltage) / voltage
}

// ResistanceToLux returns 0 for non-positive or infinite resistance
func (c *Converter) ResistanceToLux(resistance float64) float64 {
	if resistance <= 0 || math.IsInf(resistance, 1) || math.IsNaN(resistance) {
		return 0
	}
	lux := math.Pow(c.A/resistance, 1/c.B)
	return util.Coerce(lux, 0, c.LuxMax)
}

// AdcToLux runs the whole conversion chain.
// Note that a saturated and a dark sensor both result in 0 lux.
func (c *Converter) AdcToLux(count uint16) float64 {
	voltage := c.AdcToVoltage(count)
	resistance := c.VoltageToResistance(voltage)
	return c.ResistanceToLux(resistance)
}
