package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/sonarprep/sonarprep/internal/domain"
)

// NewSonarprepMCPServer creates an MCP server with all sonarprep tools
// and resources registered. Queries go to the given analysis server; the
// projectPath anchors the local configuration resource.
func NewSonarprepMCPServer(api domain.AnalysisServer, projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"sonarprep",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, api)
	registerResources(s, projectPath)

	return s
}
