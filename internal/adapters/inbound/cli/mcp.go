package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/sonarprep/sonarprep/internal/adapters/inbound/mcp"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/localcfg"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the sonarprep MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var (
		conn        serverFlags
		projectPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the sonarprep MCP server (stdio)",
		Long:  "Start the sonarprep MCP server using stdio transport. This lets AI coding assistants query quality profiles, active rules, analysis properties and installed plugins.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			absPath, err := filepath.Abs(projectPath)
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

			s := mcpadapter.NewSonarprepMCPServer(client, absPath)
			return server.ServeStdio(s)
		},
	}

	conn.register(cmd)
	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")

	return cmd
}
