package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/localcfg"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/memserver"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/rulesetfile"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/snapshotcache"
	"github.com/sonarprep/sonarprep/internal/application"
	"github.com/sonarprep/sonarprep/internal/domain"
	"github.com/sonarprep/sonarprep/internal/logging"
)

func newRulesetCmd() *cobra.Command {
	var (
		conn         serverFlags
		path         string
		projectKey   string
		branch       string
		plugin       string
		language     string
		repository   string
		fileName     string
		outDir       string
		snapshotFile string
		jsonOutput   bool
	)

	def := domain.DefaultRulesetSpecs()[0]

	cmd := &cobra.Command{
		Use:   "ruleset",
		Short: "Generate a single analyzer ruleset",
		Long:  "Generate one ruleset file from the project's quality profile. When no rules apply, nothing is written and any stale file is removed.",
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
			resolvedBranch := firstNonEmpty(branch, settings.Branch)

			var server domain.AnalysisServer
			if snapshotFile != "" {
				snap, err := snapshotcache.New().LoadFile(snapshotFile)
				if err != nil {
					return err
				}
				logging.Info("generating offline from snapshot",
					"file", snapshotFile, "captured", snap.CapturedAt)
				server = memserver.New(snap.Data)
			} else {
				client, err := conn.newServerClient(settings)
				if err != nil {
					return err
				}
				server = client
			}

			spec := domain.RulesetSpec{
				PluginKey:  plugin,
				Language:   language,
				Repository: repository,
				FileName:   fileName,
			}
			outPath := filepath.Join(outDir, fileName)

			svc := application.NewRulesetService(rulesetfile.New())
			written, err := svc.Generate(server, spec, key, resolvedBranch, outPath)
			if err != nil {
				return fmt.Errorf("generating ruleset: %w", err)
			}

			outcome := domain.RulesetOutcome{Spec: spec, Written: written}
			if written {
				outcome.Path = outPath
			}

			if jsonOutput {
				return renderResultJSON(cmd, outcome)
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "no applicable rules, nothing written")
			}
			return nil
		},
	}

	conn.register(cmd)
	cmd.Flags().StringVar(&path, "path", ".", "Project path")
	cmd.Flags().StringVar(&projectKey, "project-key", "", "Project key on the server")
	cmd.Flags().StringVar(&branch, "branch", "", "Analysis branch")
	cmd.Flags().StringVar(&plugin, "plugin", def.PluginKey, "Plugin that must be installed on the server")
	cmd.Flags().StringVar(&language, "language", def.Language, "Quality profile language")
	cmd.Flags().StringVar(&repository, "repository", def.Repository, "Rule repository the ruleset draws from")
	cmd.Flags().StringVar(&fileName, "file", def.FileName, "Output file name")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory the ruleset is written into")
	cmd.Flags().StringVar(&snapshotFile, "snapshot", "", "Generate offline from a snapshot file instead of a live server")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the outcome as JSON")

	return cmd
}
