package cmd

import (
	"github.com/spf13/cobra"

	"github.com/seichijunrei/seichijunrei/internal/observability"
	"github.com/seichijunrei/seichijunrei/internal/output"
)

var nearRadiusKm float64

var nearCmd = &cobra.Command{
	Use:   "near <station>",
	Short: "Find anime with pilgrimage points near a station",
	Long: `Resolve a train station and list the anime that have scene
locations within the given radius, nearest first.`,
	Args: cobra.ExactArgs(1),
	RunE: runNear,
}

func init() {
	rootCmd.AddCommand(nearCmd)

	nearCmd.Flags().Float64VarP(&nearRadiusKm, "radius", "r", 0, "search radius in kilometers (default from config)")
}

func runNear(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	radius := nearRadiusKm
	if radius <= 0 {
		radius = cfg.Defaults.RadiusKm
	}

	eng, closeGateway := buildEngine(cfg, observability.CLILogger)
	defer closeGateway()

	result, err := eng.SearchNearStation(cmd.Context(), args[0], radius)
	if err != nil {
		return err
	}

	return emit(format, func() string { return output.NearStationTable(result) }, result)
}
