package cmd

import (
	"github.com/spf13/cobra"

	"github.com/seichijunrei/seichijunrei/internal/gateway/bangumi"
	"github.com/seichijunrei/seichijunrei/internal/observability"
	"github.com/seichijunrei/seichijunrei/internal/output"
)

var (
	searchSubjectType int
	searchMaxResults  int
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search anime subjects by keyword",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchSubjectType, "type", bangumi.SubjectTypeAnime, "subject type filter")
	searchCmd.Flags().IntVar(&searchMaxResults, "max-results", 0, "maximum results (default from provider)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	maxResults := searchMaxResults
	if maxResults <= 0 && cfg.Defaults.MaxResults > 0 {
		maxResults = cfg.Defaults.MaxResults
	}

	eng, closeGateway := buildEngine(cfg, observability.CLILogger)
	defer closeGateway()

	subjects, err := eng.SearchSubjects(cmd.Context(), args[0], searchSubjectType, maxResults)
	if err != nil {
		return err
	}

	return emit(format, func() string { return output.SubjectsTable(subjects) }, subjects)
}
