package cmd

import (
	"github.com/spf13/cobra"

	"github.com/seichijunrei/seichijunrei/internal/observability"
	"github.com/seichijunrei/seichijunrei/internal/output"
)

var pointsCmd = &cobra.Command{
	Use:   "points <bangumi-id>",
	Short: "List the pilgrimage points of one anime",
	Long: `Fetch every scene location recorded for the given bangumi ID,
ordered by episode and in-episode time.`,
	Args: cobra.ExactArgs(1),
	RunE: runPoints,
}

func init() {
	rootCmd.AddCommand(pointsCmd)
}

func runPoints(cmd *cobra.Command, args []string) error {
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

	points, err := eng.FetchBangumiPoints(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return emit(format, func() string { return output.PointsTable(points) }, points)
}
