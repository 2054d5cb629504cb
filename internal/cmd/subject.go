package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seichijunrei/seichijunrei/internal/observability"
	"github.com/seichijunrei/seichijunrei/internal/output"
)

var subjectCmd = &cobra.Command{
	Use:   "subject <id>",
	Short: "Show one anime subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubject,
}

func init() {
	rootCmd.AddCommand(subjectCmd)
}

func runSubject(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	subjectID, err := strconv.Atoi(args[0])
	if err != nil || subjectID <= 0 {
		return fmt.Errorf("subject id must be a positive integer, got %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, closeGateway := buildEngine(cfg, observability.CLILogger)
	defer closeGateway()

	subject, err := eng.GetSubject(cmd.Context(), subjectID)
	if err != nil {
		return err
	}

	return emit(format, func() string { return output.SubjectTable(subject) }, subject)
}
