// Package cmd holds the seichijunrei CLI.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/seichijunrei/seichijunrei/internal/config"
	"github.com/seichijunrei/seichijunrei/internal/observability"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string
	noCache      bool

	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package with ldflags values.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "seichijunrei",
	Short: "Anime pilgrimage planning toolkit",
	Long: `seichijunrei looks up anime pilgrimage geography: resolve train
stations, find anime with scene locations nearby, list the scenes of one
anime, and search subject metadata.

Use the subcommands to perform specific operations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml, ~/.config/seichijunrei/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
}

// loadConfig initializes the CLI logger and loads configuration with the
// global flag overrides applied.
func loadConfig() (*config.Config, error) {
	observability.InitCLILogger(verbose)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if noCache {
		cfg.Gateway.UseCache = false
	}
	return cfg, nil
}
