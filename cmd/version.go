package cmd

import (
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/spf13/cobra"
)

var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lux2go",
	Long:  `All software has versions. This is lux2go's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln("%s", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
