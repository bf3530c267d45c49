package sensor

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode a raw sensor frame",
	Long:  `Decodes a sensor notification payload given as hex string, e.g. "00080008", and converts every channel to lux.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := loadSensorConfig()
		lines, err := decodeFrame(args[0], config.Channels, sensors.NewConverter(config))
		if err != nil {
			return err
		}
		for _, line := range lines {
			ui.Printfln("%s", line)
		}
		return nil
	},
}

func init() {
	Command.AddCommand(decodeCmd)
}

func decodeFrame(text string, channels int, converter *sensors.Converter) ([]string, error) {
	frame, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(text), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex frame: %w", err)
	}
	values, err := sensors.Decode(frame, channels)
	if err != nil {
		return nil, err
	}
	var lines []string
	for i, value := range values {
		lines = append(lines, fmt.Sprintf("%s: %d (%.2f lux)", sensors.ChannelName(i), value, converter.AdcToLux(value)))
	}
	return lines, nil
}
