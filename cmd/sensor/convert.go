package sensor

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/lux2go/lux2go/cmd/global"
	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var convertCmd = &cobra.Command{
	Use:   "convert <adc>...",
	Short: "Convert raw ADC counts to illuminance",
	Long:  `Runs the given raw ADC counts through the configured conversion chain and prints every stage.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseAdcValues(args)
		if err != nil {
			return err
		}

		converter := sensors.NewConverter(loadSensorConfig())
		tab := table.Table{
			Headers: []string{"ADC", "Voltage (V)", "Resistance (Ohm)", "Lux"},
			Rows:    conversionRows(converter, values),
		}
		var buf bytes.Buffer
		err = tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if err != nil {
			return err
		}
		ui.Printfln("%s", buf.String())
		return nil
	},
}

func init() {
	Command.AddCommand(convertCmd)
}

func parseAdcValues(args []string) ([]uint16, error) {
	var values []uint16
	for _, arg := range args {
		value, err := strconv.ParseUint(arg, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid ADC value '%s': %w", arg, err)
		}
		values = append(values, uint16(value))
	}
	return values, nil
}

func conversionRows(converter *sensors.Converter, values []uint16) [][]string {
	var rows [][]string
	for _, value := range values {
		voltage := converter.AdcToVoltage(value)
		resistance := converter.VoltageToResistance(voltage)
		rows = append(rows, []string{
			strconv.Itoa(int(value)),
			fmt.Sprintf("%.4f", voltage),
			fmt.Sprintf("%.1f", resistance),
			fmt.Sprintf("%.2f", converter.ResistanceToLux(resistance)),
		})
	}
	return rows
}
