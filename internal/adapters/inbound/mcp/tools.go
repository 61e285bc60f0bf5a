package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sonarprep/sonarprep/internal/domain"
)

// registerTools registers all sonarprep MCP tools on the given server.
func registerTools(s *server.MCPServer, api domain.AnalysisServer) {
	// 1. sonarprep_quality_profile
	s.AddTool(
		mcplib.NewTool("sonarprep_quality_profile",
			mcplib.WithDescription("Resolve the quality profile for a project, branch and language"),
			mcplib.WithString("project_key",
				mcplib.Required(),
				mcplib.Description("Project key on the quality server"),
			),
			mcplib.WithString("language",
				mcplib.Required(),
				mcplib.Description("Profile language key (e.g. cs, vbnet)"),
			),
			mcplib.WithString("branch", mcplib.Description("Analysis branch (optional)")),
		),
		handleQualityProfile(api),
	)

	// 2. sonarprep_active_rules
	s.AddTool(
		mcplib.NewTool("sonarprep_active_rules",
			mcplib.WithDescription("List the active rule identifiers of a profile within one rule repository"),
			mcplib.WithString("profile",
				mcplib.Required(),
				mcplib.Description("Quality profile name"),
			),
			mcplib.WithString("language",
				mcplib.Required(),
				mcplib.Description("Profile language key"),
			),
			mcplib.WithString("repository",
				mcplib.Required(),
				mcplib.Description("Rule repository key (e.g. fxcop)"),
			),
		),
		handleActiveRules(api),
	)

	// 3. sonarprep_properties
	s.AddTool(
		mcplib.NewTool("sonarprep_properties",
			mcplib.WithDescription("Return the project's analysis properties as JSON"),
			mcplib.WithString("project_key",
				mcplib.Required(),
				mcplib.Description("Project key on the quality server"),
			),
			mcplib.WithString("branch", mcplib.Description("Analysis branch (optional)")),
		),
		handleProperties(api),
	)

	// 4. sonarprep_plugins
	s.AddTool(
		mcplib.NewTool("sonarprep_plugins",
			mcplib.WithDescription("List the plugin keys installed on the quality server"),
		),
		handlePlugins(api),
	)
}

func handleQualityProfile(api domain.AnalysisServer) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		projectKey, err := request.RequireString("project_key")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		language, err := request.RequireString("language")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		branch, _ := request.GetArguments()["branch"].(string)

		name, found, err := api.QualityProfile(projectKey, branch, language)
		if err != nil {
			return errorResult(fmt.Sprintf("resolving profile failed: %v", err)), nil
		}

		result := struct {
			Profile  string `json:"profile,omitempty"`
			Language string `json:"language"`
			Found    bool   `json:"found"`
		}{Profile: name, Language: language, Found: found}
		return jsonResult(result)
	}
}

func handleActiveRules(api domain.AnalysisServer) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		profile, err := request.RequireString("profile")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		language, err := request.RequireString("language")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		repository, err := request.RequireString("repository")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		keys, err := api.ActiveRuleKeys(profile, language, repository)
		if err != nil {
			return errorResult(fmt.Sprintf("fetching active rules failed: %v", err)), nil
		}

		result := struct {
			Profile    string   `json:"profile"`
			Repository string   `json:"repository"`
			Rules      []string `json:"rules"`
		}{Profile: profile, Repository: repository, Rules: keys}
		return jsonResult(result)
	}
}

func handleProperties(api domain.AnalysisServer) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		projectKey, err := request.RequireString("project_key")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		branch, _ := request.GetArguments()["branch"].(string)

		props, err := api.Properties(projectKey, branch)
		if err != nil {
			return errorResult(fmt.Sprintf("fetching properties failed: %v", err)), nil
		}
		return jsonResult(props)
	}
}

func handlePlugins(api domain.AnalysisServer) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		plugins, err := api.InstalledPlugins()
		if err != nil {
			return errorResult(fmt.Sprintf("listing plugins failed: %v", err)), nil
		}
		return jsonResult(plugins)
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
