package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/localcfg"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/render"
)

func newPropertiesCmd() *cobra.Command {
	var (
		conn       serverFlags
		path       string
		projectKey string
		branch     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "properties",
		Short: "Show the project's analysis properties",
		Long:  "Fetch the server-side analysis properties for a project, including inherited global values.",
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			settings, err := localcfg.New().Load(absPath)
			if err != nil {
				return err
			}

			key := firstNonEmpty(projectKey, settings.ProjectKey)
			if key == "" {
				return fmt.Errorf("no project key configured (use --project-key or sonarprep.yaml)")
			}

			client, err := conn.newServerClient(settings)
			if err != nil {
				return err
			}

			props, err := client.Properties(key, firstNonEmpty(branch, settings.Branch))
			if err != nil {
				return fmt.Errorf("fetching properties: %w", err)
			}

			if jsonOutput {
				return renderResultJSON(cmd, props)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.RenderProperties(props))
			return nil
		},
	}

	conn.register(cmd)
	cmd.Flags().StringVar(&path, "path", ".", "Project path")
	cmd.Flags().StringVar(&projectKey, "project-key", "", "Project key on the server")
	cmd.Flags().StringVar(&branch, "branch", "", "Analysis branch")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output properties as JSON")

	return cmd
}
