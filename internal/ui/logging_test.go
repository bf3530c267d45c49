package ui

import (
	"os"

	"github.com/pterm/pterm"
)

func ExamplePrintfln() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	Printfln("Lux: %.1f", 350.0)
	// Output:
	// Lux: 350.0
}

func ExampleDebug() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()
	SetDebugEnabled(true)

	Debug("Channel %d filtered: %d", 0, 5)
	// Output:
	// DEBUG: Channel 0 filtered: 5
}

func ExampleInfo() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	Info("Connected to %s", "ESP32_LightSensor_BLE")
	// Output:
	// INFO: Connected to ESP32_LightSensor_BLE
}

func ExampleWarning() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	Warning("Dropping malformed frame: %d", 3)
	// Output:
	// WARNING: Dropping malformed frame: 3
}

func ExampleError() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	Error("Write failed: %v", os.ErrClosed)
	// Output:
	// ERROR: Write failed: file already closed
}

func ExampleSuccess() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	Success("Config looks good! :)")
	// Output:
	// SUCCESS: Config looks good! :)
}
