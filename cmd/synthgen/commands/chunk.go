// ABOUTME: CLI command to chunk a document without generating
// ABOUTME: Prints the chunk sequence as text or JSON for inspection
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NeoVand/synthgen-sub000/internal/chunker"
	"github.com/NeoVand/synthgen-sub000/internal/models"
	"github.com/NeoVand/synthgen-sub000/internal/util"
)

var (
	chunkAlgorithm string
	chunkSize      int
	chunkOverlap   int
	windowSize     int
	chunkDelimiter string
	chunkColumns   []int
	chunkKeys      []string
)

// NewChunkCmd creates the chunk command
func NewChunkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunk [file]",
		Short: "Split a document into chunks",
		Long: `Split a document into chunks and print them.

Reads from the given file, or stdin when no file is given. The
algorithm decides how the input is interpreted: plain text for the
character and sentence algorithms, delimited rows for csv-tsv, and
JSON/JSONL records for jsonl.

Examples:
  synthgen chunk notes.md --algorithm markdown
  synthgen chunk data.csv --algorithm csv-tsv --columns 0,2
  cat records.jsonl | synthgen chunk --algorithm jsonl --keys title,body
  synthgen chunk book.txt --algorithm sentence --chunk-size 256 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChunk,
	}

	cmd.Flags().StringVarP(&chunkAlgorithm, "algorithm", "a", "recursive", "Chunking algorithm: recursive, line, sentence, markdown, rolling-window, csv-tsv, jsonl")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Chunk size (characters or tokens depending on algorithm)")
	cmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", -1, "Overlap between consecutive chunks")
	cmd.Flags().IntVar(&windowSize, "window-size", 0, "Sentences of context on each side for rolling-window")
	cmd.Flags().StringVar(&chunkDelimiter, "delimiter", ",", "Field delimiter for csv-tsv")
	cmd.Flags().IntSliceVar(&chunkColumns, "columns", nil, "Zero-based column indices to include for csv-tsv")
	cmd.Flags().StringSliceVar(&chunkKeys, "keys", nil, "Key paths to include for jsonl (default: all)")

	return cmd
}

func runChunk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	algorithm, err := models.ParseAlgorithm(chunkAlgorithm)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	opts := cfg.ChunkOptions(algorithm)
	if chunkSize > 0 {
		opts.ChunkSize = chunkSize
	}
	if chunkOverlap >= 0 {
		opts.ChunkOverlap = chunkOverlap
	}
	if windowSize > 0 {
		opts.WindowSize = windowSize
	}

	input, err := buildChunkInput(data, algorithm, chunkDelimiter, chunkColumns, chunkKeys)
	if err != nil {
		return err
	}

	chunks, err := chunker.Chunk(input, opts)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	header := color.New(color.FgCyan).SprintfFunc()
	for i, chunk := range chunks {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n\n", header("--- chunk %d (%d tokens) ---", i+1, util.EstimateTokens(chunk)), chunk)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Total: %d chunk(s)\n", len(chunks))
	}
	return nil
}
