package cmd

import (
	"github.com/spf13/cobra"

	"github.com/seichijunrei/seichijunrei/internal/observability"
	"github.com/seichijunrei/seichijunrei/internal/output"
)

var stationCmd = &cobra.Command{
	Use:   "station <name>",
	Short: "Look up a train station",
	Long:  "Resolve a Japanese train station by name and print its coordinates.",
	Args:  cobra.ExactArgs(1),
	RunE:  runStation,
}

func init() {
	rootCmd.AddCommand(stationCmd)
}

func runStation(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, closeGateway := buildEngine(cfg, observability.CLILogger)
	defer closeGateway()

	station, err := eng.Anitabi.StationInfo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return emit(format, func() string { return output.StationTable(station) }, station)
}
