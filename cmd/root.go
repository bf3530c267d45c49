package cmd

import (
	"fmt"
	"os"

	"github.com/lux2go/lux2go/cmd/config"
	"github.com/lux2go/lux2go/cmd/global"
	"github.com/lux2go/lux2go/cmd/history"
	"github.com/lux2go/lux2go/cmd/sensor"
	"github.com/lux2go/lux2go/internal"
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lux2go",
	Short: "A daemon to keep the illumination of a room within a target band.",
	Long: `lux2go is a daemon that reads a wireless light sensor
and moves a blind to keep the illumination of a room within a target band.`,
	// this is the default command to run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()
		printHeader()

		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		err := configuration.Validate()
		if err != nil {
			reportConfigError(err)
			os.Exit(1)
		}

		internal.RunDaemon()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is $HOME/lux2go.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(sensor.Command)
	rootCmd.AddCommand(history.Command)
}

func reportConfigError(err error) {
	ui.ErrorAndNotify("Config Validation Error", "%v", err)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("lux", pterm.NewStyle(pterm.FgLightYellow)),
		pterm.NewLettersFromStringWithStyle("2", pterm.NewStyle(pterm.FgWhite)),
		pterm.NewLettersFromStringWithStyle("go", pterm.NewStyle(pterm.FgLightYellow)),
	).Render()
	if err != nil {
		fmt.Println("lux2go")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		setupUi()
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
