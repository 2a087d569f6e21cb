// ABOUTME: Tests for the generate command structure and input validation
// ABOUTME: Backend-facing paths are covered by the orchestrator package tests

package commands

import (
	"strings"
	"testing"
)

func TestNewGenerateCmd(t *testing.T) {
	cmd := NewGenerateCmd()

	if !strings.HasPrefix(cmd.Use, "generate") {
		t.Errorf("Use = %q, want generate", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	expectedFlags := []string{
		"kind", "algorithm", "chunk-size", "chunk-overlap", "window-size",
		"delimiter", "columns", "keys", "model", "base-url", "output",
	}
	for _, name := range expectedFlags {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not found", name)
		}
	}
}

func TestGenerateCmd_UnknownKind(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "hello world\n")

	_, err := runCLI(t, "generate", path, "--kind", "bogus")
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the kind, got: %v", err)
	}
}

func TestGenerateCmd_UnknownAlgorithm(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "hello world\n")

	_, err := runCLI(t, "generate", path, "--algorithm", "bogus")
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestGenerateCmd_EmptyInput(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "")

	_, err := runCLI(t, "generate", path)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}
