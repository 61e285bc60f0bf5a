package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/configstore"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/gitinfo"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/localcfg"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/render"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/rulesetfile"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/runhistory"
	"github.com/sonarprep/sonarprep/internal/application"
	"github.com/sonarprep/sonarprep/internal/domain"
	"github.com/sonarprep/sonarprep/internal/logging"
)

func newPreprocessCmd() *cobra.Command {
	var (
		conn           serverFlags
		projectKey     string
		projectName    string
		projectVersion string
		branch         string
		configDir      string
		outputDir      string
		properties     map[string]string
		jsonOutput     bool
		showHistory    bool
	)

	cmd := &cobra.Command{
		Use:   "preprocess [path]",
		Short: "Prepare a project for analysis",
		Long:  "Fetch server settings, generate analyzer rulesets from the project's quality profiles and write the analysis configuration file.",
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

			hist := runhistory.New()
			if showHistory {
				records, err := hist.Load(absPath)
				if err != nil {
					return fmt.Errorf("loading history: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), render.RenderHistory(records))
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

			// Branch precedence: flag, settings file, then the checked-out
			// git branch as a best-effort default.
			gi := gitinfo.New()
			resolvedBranch := firstNonEmpty(branch, settings.Branch)
			if resolvedBranch == "" {
				if b, err := gi.CurrentBranch(absPath); err == nil && b != "" {
					resolvedBranch = b
					logging.Info("defaulting branch from git", "branch", b)
				}
			}

			client, err := conn.newServerClient(settings)
			if err != nil {
				return err
			}

			local := make(map[string]string, len(settings.Properties)+len(properties))
			for k, v := range settings.Properties {
				local[k] = v
			}
			for k, v := range properties {
				local[k] = v
			}

			opts := domain.PreprocessOptions{
				ServerURL:       client.BaseURL(),
				ProjectKey:      key,
				ProjectName:     firstNonEmpty(projectName, settings.ProjectName, key),
				ProjectVersion:  firstNonEmpty(projectVersion, settings.ProjectVersion, "1.0"),
				Branch:          resolvedBranch,
				ConfigDir:       firstNonEmpty(configDir, filepath.Join(absPath, ".sonarprep", "conf")),
				OutputDir:       firstNonEmpty(outputDir, filepath.Join(absPath, ".sonarprep", "out")),
				LocalProperties: local,
				Rulesets:        settings.Rulesets,
				EmbeddedFiles:   settings.Fetch,
			}

			svc := application.NewPreprocessService(
				client,
				application.NewRulesetService(rulesetfile.New()),
				configstore.New(),
			)

			result, err := svc.Run(opts)
			if err != nil {
				return fmt.Errorf("preprocessing failed: %w", err)
			}

			rec := domain.RunRecord{
				Timestamp:  result.Timestamp,
				ProjectKey: result.ProjectKey,
				Branch:     result.Branch,
				ServerURL:  opts.ServerURL,
				Rulesets:   result.WrittenRulesets(),
			}
			if hash, err := gi.CommitHash(absPath); err == nil {
				rec.CommitHash = hash
			}
			_ = hist.Append(absPath, rec) // best-effort

			if jsonOutput {
				return renderResultJSON(cmd, result)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.RenderPreprocess(result))
			return nil
		},
	}

	conn.register(cmd)
	cmd.Flags().StringVar(&projectKey, "project-key", "", "Project key on the server")
	cmd.Flags().StringVar(&projectName, "project-name", "", "Project display name")
	cmd.Flags().StringVar(&projectVersion, "project-version", "", "Project version")
	cmd.Flags().StringVar(&branch, "branch", "", "Analysis branch (defaults to the checked-out git branch)")
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Directory for generated configuration (default <path>/.sonarprep/conf)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for analysis output (default <path>/.sonarprep/out)")
	cmd.Flags().StringToStringVar(&properties, "property", nil, "Local analysis property key=value (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run result as JSON")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Show past preprocess runs")

	return cmd
}

func renderResultJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
