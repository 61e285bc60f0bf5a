package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/localcfg"
)

func newExportCmd() *cobra.Command {
	var (
		conn        serverFlags
		path        string
		profileName string
		language    string
		format      string
		outFile     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch a rendered quality profile export",
		Long:  "Download a quality profile in an exporter format the server supports (for example a SonarLint or Roslyn configuration).",
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			settings, err := localcfg.New().Load(absPath)
			if err != nil {
				return err
			}

			client, err := conn.newServerClient(settings)
			if err != nil {
				return err
			}

			content, found, err := client.ProfileExport(profileName, language, format)
			if err != nil {
				return fmt.Errorf("exporting profile: %w", err)
			}
			if !found {
				return fmt.Errorf("no %s export for profile %q (%s)", format, profileName, language)
			}

			if outFile != "" {
				if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outFile)
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}

	conn.register(cmd)
	cmd.Flags().StringVar(&path, "path", ".", "Project path")
	cmd.Flags().StringVar(&profileName, "profile", "", "Quality profile name")
	cmd.Flags().StringVar(&language, "language", "", "Profile language")
	cmd.Flags().StringVar(&format, "format", "", "Exporter format key")
	cmd.Flags().StringVar(&outFile, "out", "", "Write the export to a file instead of stdout")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("language")
	_ = cmd.MarkFlagRequired("format")

	return cmd
}
