package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/localcfg"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/snapshotcache"
	"github.com/sonarprep/sonarprep/internal/application"
)

func newSnapshotCmd() *cobra.Command {
	var (
		conn       serverFlags
		projectKey string
		branch     string
		invalidate bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot [path]",
		Short: "Capture server state for offline runs",
		Long:  "Query the server for plugins, properties, profiles and rule metadata, and store the result under .sonarprep/cache for later offline ruleset generation.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			store := snapshotcache.New()
			if invalidate {
				if err := store.Invalidate(absPath); err != nil {
					return fmt.Errorf("removing snapshot: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "snapshot removed")
				return nil
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

			data, err := application.NewSnapshotService().Capture(client, application.CaptureOptions{
				ProjectKey: key,
				Branch:     firstNonEmpty(branch, settings.Branch),
				Rulesets:   settings.Rulesets,
			})
			if err != nil {
				return fmt.Errorf("capturing snapshot: %w", err)
			}

			snap := &snapshotcache.Snapshot{
				ServerURL:  client.BaseURL(),
				CapturedAt: time.Now(),
				Data:       data,
			}
			if err := store.Save(absPath, snap); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "captured %d plugins, %d profiles, %d repositories\n",
				len(data.InstalledPlugins), len(data.Profiles), len(data.Repositories))
			return nil
		},
	}

	conn.register(cmd)
	cmd.Flags().StringVar(&projectKey, "project-key", "", "Project key on the server")
	cmd.Flags().StringVar(&branch, "branch", "", "Analysis branch")
	cmd.Flags().BoolVar(&invalidate, "invalidate", false, "Remove the stored snapshot instead of capturing")

	return cmd
}
