package configuration

import (
	"os"
	"time"

	"github.com/lux2go/lux2go/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	Connection ConnectionConfig `json:"connection"`
	Sensor     SensorConfig     `json:"sensor"`
	Filter     FilterConfig     `json:"filter"`
	Controller ControllerConfig `json:"controller"`
	Actuator   ActuatorConfig   `json:"actuator"`

	Statistics  StatisticsConfig  `json:"statistics"`
	Api         ApiConfig         `json:"api"`
	Mqtt        MqttConfig        `json:"mqtt"`
	Persistence PersistenceConfig `json:"persistence"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("lux2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/lux2go/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/lux2go/lux2go.db")

	viper.SetDefault("connection.transport", TransportBle)
	viper.SetDefault("connection.deviceName", "ESP32_LightSensor_BLE")
	viper.SetDefault("connection.serviceUuid", "4fafc201-1fb5-459e-8fcc-c5c9c331914b")
	viper.SetDefault("connection.sensorCharacteristic", "beb5483e-36e1-4688-b7f5-ea07361b26a8")
	viper.SetDefault("connection.actuatorCharacteristic", "5c8c1a8e-5b69-4d68-bc2c-8d36b1f67270")
	viper.SetDefault("connection.scanTimeout", 10*time.Second)
	viper.SetDefault("connection.tickRate", 100*time.Millisecond)
	viper.SetDefault("connection.backoff.min", 5*time.Second)
	viper.SetDefault("connection.backoff.max", 60*time.Second)
	viper.SetDefault("connection.backoff.multiplier", 1.0)
	viper.SetDefault("connection.file.path", "/run/lux2go/device")
	viper.SetDefault("connection.file.pollRate", 100*time.Millisecond)
	viper.SetDefault("connection.simulated.ambientLux", 800.0)
	viper.SetDefault("connection.simulated.noise", 20.0)
	viper.SetDefault("connection.simulated.notifyRate", 100*time.Millisecond)

	viper.SetDefault("sensor.channels", 2)
	viper.SetDefault("sensor.controlChannel", 0)
	viper.SetDefault("sensor.adcResolution", 4095)
	viper.SetDefault("sensor.vRef", 3.3)
	viper.SetDefault("sensor.rFixed", 10000.0)
	viper.SetDefault("sensor.a", 500000.0)
	viper.SetDefault("sensor.b", 1.0)
	viper.SetDefault("sensor.singularityMargin", 0.01)
	viper.SetDefault("sensor.luxMax", 5000.0)
	viper.SetDefault("sensor.rollingWindowSize", 50)

	viper.SetDefault("filter.cutoff", 2.0)
	viper.SetDefault("filter.sampleRate", 10.0)
	viper.SetDefault("filter.order", 2)
	viper.SetDefault("filter.historySize", 100)

	viper.SetDefault("controller.p", 0.5)
	viper.SetDefault("controller.i", 0.05)
	viper.SetDefault("controller.d", 0.1)
	viper.SetDefault("controller.setPoint", 350.0)
	viper.SetDefault("controller.outputMin", 0.0)
	viper.SetDefault("controller.outputMax", 90.0)
	viper.SetDefault("controller.band", []float64{200, 500})

	viper.SetDefault("actuator.min", 0)
	viper.SetDefault("actuator.max", 90)
	viper.SetDefault("actuator.stepLimit", 0)
	viper.SetDefault("actuator.initialPosition", 0)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.clientId", "lux2go")
	viper.SetDefault("mqtt.topic", "lux2go")
	viper.SetDefault("mqtt.publishRate", 1*time.Second)

	viper.SetDefault("persistence.snapshotRate", 10*time.Second)
}

// DetectAndReadConfigFile reads the config file found by viper and returns its path
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			ui.Warning("No config file found, using default values")
			return ""
		}
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			BandHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}
