// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Consolidates input reading, config loading, and chunk input assembly
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/NeoVand/synthgen-sub000/internal/chunker"
	"github.com/NeoVand/synthgen-sub000/internal/config"
	"github.com/NeoVand/synthgen-sub000/internal/models"
	"github.com/NeoVand/synthgen-sub000/internal/schema"
)

// loadConfig loads configuration from env plus the optional --config file
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// readInput reads the positional file argument, or stdin when absent
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", args[0], err)
		}
		return data, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}

// buildChunkInput assembles the chunker input for the given algorithm.
// For csv-tsv it parses the data with the delimiter and column set; for
// jsonl it parses the records and selects the requested keys, or every
// key when none are named.
func buildChunkInput(data []byte, algorithm models.Algorithm, delimiter string, columns []int, keyPaths []string) (chunker.Input, error) {
	switch algorithm {
	case models.AlgorithmCSV:
		d, err := chunker.DelimiterRune(delimiter)
		if err != nil {
			return chunker.Input{}, err
		}
		rows, err := chunker.ParseCSV(strings.NewReader(string(data)), d)
		if err != nil {
			return chunker.Input{}, fmt.Errorf("parsing delimited data: %w", err)
		}
		return chunker.Input{Rows: rows, Columns: columns}, nil

	case models.AlgorithmJSONL:
		records, err := chunker.ParseRecords(data)
		if err != nil {
			return chunker.Input{}, fmt.Errorf("parsing structured data: %w", err)
		}
		keys, err := schema.Extract(records)
		if err != nil {
			return chunker.Input{}, fmt.Errorf("extracting schema: %w", err)
		}
		if len(keyPaths) == 0 {
			keys.SelectAll()
		} else {
			for _, path := range keyPaths {
				if !keys.Select(path) {
					return chunker.Input{}, fmt.Errorf("unknown key path %q", path)
				}
			}
		}
		return chunker.Input{Records: records, Keys: keys}, nil

	default:
		return chunker.Input{Text: string(data)}, nil
	}
}
