// ABOUTME: CLI command to inspect the key tree of structured data
// ABOUTME: Shows the hierarchical keys available to jsonl chunking
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/NeoVand/synthgen-sub000/internal/chunker"
	"github.com/NeoVand/synthgen-sub000/internal/schema"
)

// NewSchemaCmd creates the schema command
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [file]",
		Short: "Show the key tree of JSON or JSONL data",
		Long: `Extract and display the hierarchical key tree of structured data.

The listed paths are what the --keys flag of the chunk and generate
commands accepts for the jsonl algorithm. Arrays of objects contribute
the keys of their first element.

Examples:
  synthgen schema records.jsonl
  cat export.json | synthgen schema --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSchema,
	}

	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	records, err := chunker.ParseRecords(data)
	if err != nil {
		return fmt.Errorf("parsing structured data: %w", err)
	}
	keys, err := schema.Extract(records)
	if err != nil {
		return fmt.Errorf("extracting schema: %w", err)
	}

	nodes := keys.Nodes()

	if outputFormat == "json" {
		type nodeInfo struct {
			Path    string `json:"path"`
			Level   int    `json:"level"`
			IsLeaf  bool   `json:"is_leaf"`
			IsArray bool   `json:"is_array"`
		}
		infos := make([]nodeInfo, 0, len(nodes))
		for _, n := range nodes {
			infos = append(infos, nodeInfo{Path: n.Path, Level: n.Level, IsLeaf: n.IsLeaf, IsArray: n.IsArray})
		}
		jsonData, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PATH\tLEVEL\tKIND\n")
	fmt.Fprintf(w, "----\t-----\t----\n")
	for _, n := range nodes {
		kind := "object"
		if n.IsLeaf {
			kind = "leaf"
		}
		if n.IsArray {
			kind += " (array)"
		}
		indent := strings.Repeat("  ", n.Level)
		fmt.Fprintf(w, "%s%s\t%d\t%s\n", indent, n.Name, n.Level, kind)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d key(s) across %d record(s)\n", len(nodes), len(records))
	}
	return nil
}
