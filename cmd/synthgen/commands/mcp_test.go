// ABOUTME: Tests for MCP command structure
// ABOUTME: Verifies MCP command configuration

package commands

import (
	"strings"
	"testing"
)

func TestNewMCPCmd(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.Use != "mcp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "mcp")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestMCPCmd_Description(t *testing.T) {
	cmd := NewMCPCmd()

	// Should mention MCP/Model Context Protocol
	if !strings.Contains(cmd.Long, "MCP") && !strings.Contains(cmd.Long, "Model Context Protocol") {
		t.Error("Long description should mention MCP")
	}

	// Should mention stdio
	if !strings.Contains(cmd.Long, "stdio") {
		t.Error("Long description should mention stdio")
	}
}

func TestMCPCmd_HasRunE(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}
