package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/localcfg"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/runhistory"
)

// registerResources registers all sonarprep MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	// 1. sonarprep://config - effective project settings
	s.AddResource(
		mcplib.NewResource(
			"sonarprep://config",
			"Project Configuration",
			mcplib.WithResourceDescription("Effective sonarprep.yaml settings for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(projectPath),
	)

	// 2. sonarprep://history - recorded preprocessing runs
	s.AddResource(
		mcplib.NewResource(
			"sonarprep://history",
			"Run History",
			mcplib.WithResourceDescription("Preprocessing runs recorded for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(projectPath),
	)
}

func handleConfigResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		settings, err := localcfg.New().Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}

		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling settings: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "sonarprep://config",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleHistoryResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		records, err := runhistory.New().Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling history: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "sonarprep://history",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
