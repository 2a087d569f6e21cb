// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to drive chunking and generation via stdio
package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/NeoVand/synthgen-sub000/internal/core"
	"github.com/NeoVand/synthgen-sub000/internal/dataset"
	"github.com/NeoVand/synthgen-sub000/internal/llm"
	"github.com/NeoVand/synthgen-sub000/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs synthgen as an MCP (Model Context Protocol) server over stdio,
exposing chunking, schema extraction, dataset management, and
generation as tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  synthgen mcp

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "synthgen": {
  #       "command": "synthgen",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store := dataset.NewStore()
	client := llm.NewClient(cfg.BaseURL, cfg.Model)
	orch := core.NewOrchestrator(client, store, cfg.GenerateOptions())

	server := mcpserver.NewMCPServer(
		"Synthgen Dataset Generator",
		"0.1.0",
	)

	mcp.RegisterTools(server, store, orch, cfg)

	if !quiet {
		log.Printf("Synthgen MCP server starting on stdio (model %s)...", cfg.Model)
	}

	if err := mcpserver.ServeStdio(server); err != nil {
		// A running batch dies with the process; make sure its context
		// is released before reporting.
		orch.Cancel()
		return fmt.Errorf("server error: %w", err)
	}

	orch.Cancel()
	return nil
}
