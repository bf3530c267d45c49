package sensor

import (
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "sensor",
	Short:            "Sensor related commands",
	Long:             ``,
	TraverseChildren: true,
}

// loadSensorConfig reads the configuration and returns its sensor section
func loadSensorConfig() configuration.SensorConfig {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Debug("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate()
	if err != nil {
		ui.Fatal("%v", err)
	}
	return configuration.CurrentConfig.Sensor
}
