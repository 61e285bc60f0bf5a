package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/localcfg"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/render"
)

func newPluginsCmd() *cobra.Command {
	var (
		conn       serverFlags
		path       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List the plugins installed on the server",
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

			plugins, err := client.InstalledPlugins()
			if err != nil {
				return fmt.Errorf("listing plugins: %w", err)
			}

			if jsonOutput {
				return renderResultJSON(cmd, plugins)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.RenderPlugins(plugins))
			return nil
		},
	}

	conn.register(cmd)
	cmd.Flags().StringVar(&path, "path", ".", "Project path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output plugin keys as JSON")

	return cmd
}
