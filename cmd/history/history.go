package history

import (
	"errors"
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/persistence"
	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/spf13/cobra"
)

var channelIndex int
var clearHistory bool

var Command = &cobra.Command{
	Use:   "history",
	Short: "Print the persisted illumination history",
	Long:  `Plots the filtered illumination history of a channel and the last known actuator position, as persisted by the daemon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectAndReadConfigFile()
		ui.Debug("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		p := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
		channel := sensors.ChannelName(channelIndex)

		if clearHistory {
			err := p.DeleteHistory(channel)
			if err != nil {
				return err
			}
			ui.Success("Deleted history of %s", channel)
			return nil
		}

		snapshot, err := p.LoadHistory(channel)
		if errors.Is(err, os.ErrNotExist) {
			ui.Warning("No history persisted for %s", channel)
		} else if err != nil {
			return err
		} else {
			ui.Printfln("%s", plotHistory(snapshot))
		}

		record, err := p.LoadActuatorPosition()
		if errors.Is(err, os.ErrNotExist) {
			ui.Warning("No actuator position persisted")
			return nil
		} else if err != nil {
			return err
		}
		ui.Printfln("Actuator position: %d (%s)", record.Position, record.Time.Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	Command.Flags().IntVarP(&channelIndex, "channel", "n", 0, "Index of the channel to plot")
	Command.Flags().BoolVar(&clearHistory, "clear", false, "Delete the persisted history of the channel")
}

func plotHistory(snapshot persistence.HistorySnapshot) string {
	if len(snapshot.Values) == 0 {
		return fmt.Sprintf("%s: empty history", snapshot.Channel)
	}
	caption := fmt.Sprintf("%s (lux, %d samples, %s)", snapshot.Channel, len(snapshot.Values), snapshot.Time.Format("2006-01-02 15:04:05"))
	return asciigraph.Plot(
		snapshot.Values,
		asciigraph.Height(15),
		asciigraph.Width(100),
		asciigraph.Caption(caption),
	)
}
