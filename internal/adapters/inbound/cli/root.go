package cli

import (
	"github.com/spf13/cobra"

	"github.com/sonarprep/sonarprep/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "sonarprep",
		Short:         "Prepare MSBuild projects for quality analysis",
		Long:          "sonarprep talks to a SonarQube-compatible server, generates analyzer rulesets from quality profiles and writes the analysis configuration the MSBuild integration consumes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newPreprocessCmd())
	cmd.AddCommand(newRulesetCmd())
	cmd.AddCommand(newPropertiesCmd())
	cmd.AddCommand(newPluginsCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSnapshotCmd())
	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
