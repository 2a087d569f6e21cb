// ABOUTME: CLI command to chunk a document and generate a QA dataset
// ABOUTME: Streams question/answer generation with live progress and writes JSONL
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NeoVand/synthgen-sub000/internal/chunker"
	"github.com/NeoVand/synthgen-sub000/internal/core"
	"github.com/NeoVand/synthgen-sub000/internal/dataset"
	"github.com/NeoVand/synthgen-sub000/internal/llm"
	"github.com/NeoVand/synthgen-sub000/internal/models"
)

var (
	generateKind      string
	generateAlgorithm string
	generateSize      int
	generateOverlap   int
	generateWindow    int
	generateDelimiter string
	generateColumns   []int
	generateKeys      []string
	generateModel     string
	generateBaseURL   string
	generateOutput    string
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate a QA dataset from a document",
		Long: `Chunk a document and generate questions and answers for each chunk.

Each chunk becomes one dataset record. Records are processed one at a
time against the backend; a record that fails is skipped and the batch
continues. Interrupting with Ctrl-C cancels the batch but keeps all
text generated so far.

The kind flag selects what is generated: qa (question then answer per
record), question, answer, or summary (one summary of the whole
document).

Examples:
  synthgen generate book.txt
  synthgen generate notes.md --algorithm markdown --kind question
  synthgen generate data.csv --algorithm csv-tsv --columns 0,1 -o dataset.jsonl
  synthgen generate book.txt --kind summary`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().StringVarP(&generateKind, "kind", "k", "qa", "What to generate: qa, question, answer, or summary")
	cmd.Flags().StringVarP(&generateAlgorithm, "algorithm", "a", "recursive", "Chunking algorithm: recursive, line, sentence, markdown, rolling-window, csv-tsv, jsonl")
	cmd.Flags().IntVar(&generateSize, "chunk-size", 0, "Chunk size (characters or tokens depending on algorithm)")
	cmd.Flags().IntVar(&generateOverlap, "chunk-overlap", -1, "Overlap between consecutive chunks")
	cmd.Flags().IntVar(&generateWindow, "window-size", 0, "Sentences of context on each side for rolling-window")
	cmd.Flags().StringVar(&generateDelimiter, "delimiter", ",", "Field delimiter for csv-tsv")
	cmd.Flags().IntSliceVar(&generateColumns, "columns", nil, "Zero-based column indices to include for csv-tsv")
	cmd.Flags().StringSliceVar(&generateKeys, "keys", nil, "Key paths to include for jsonl (default: all)")
	cmd.Flags().StringVarP(&generateModel, "model", "m", "", "Model name (overrides config)")
	cmd.Flags().StringVar(&generateBaseURL, "base-url", "", "Backend base URL (overrides config)")
	cmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write the dataset to a file instead of stdout")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if generateModel != "" {
		cfg.Model = generateModel
	}
	if generateBaseURL != "" {
		cfg.BaseURL = generateBaseURL
	}

	kind, ok := models.ParseGenerationKind(generateKind)
	if !ok {
		return fmt.Errorf("unknown generation kind %q", generateKind)
	}
	algorithm, err := models.ParseAlgorithm(generateAlgorithm)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	opts := cfg.ChunkOptions(algorithm)
	if generateSize > 0 {
		opts.ChunkSize = generateSize
	}
	if generateOverlap >= 0 {
		opts.ChunkOverlap = generateOverlap
	}
	if generateWindow > 0 {
		opts.WindowSize = generateWindow
	}

	input, err := buildChunkInput(data, algorithm, generateDelimiter, generateColumns, generateKeys)
	if err != nil {
		return err
	}
	chunks, err := chunker.Chunk(input, opts)
	if err != nil {
		return err
	}

	store := dataset.NewStore()
	store.CreateFrom(chunks)

	client := llm.NewClient(cfg.BaseURL, cfg.Model)
	orch := core.NewOrchestrator(client, store, cfg.GenerateOptions())

	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "backend %s, temperature %.2f, top_p %.2f, num_ctx %d\n",
			cfg.BaseURL, cfg.Temperature, cfg.TopP, cfg.NumCtx)
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %d chunk(s), model %s\n", bold("Generating:"), store.Len(), cfg.Model)
	}
	orch.SetProgressFunc(func(p models.Progress) {
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "\r%s %d/%d", green("progress"), p.Completed, p.Total)
			if p.Completed == p.Total {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		}
	})

	// Ctrl-C cancels the batch; text already generated is kept and
	// still written out below.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := orch.Run(ctx, kind)
	cancelled := errors.Is(runErr, context.Canceled)
	if runErr != nil && !cancelled {
		return runErr
	}
	if cancelled && !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%s partial results kept\n", bold("Cancelled:"))
	}

	if kind == models.KindSummary {
		fmt.Fprintln(cmd.OutOrStdout(), orch.Summary())
		return nil
	}
	return writeDataset(cmd, store)
}

// writeDataset emits the dataset as JSONL, one record per line
func writeDataset(cmd *cobra.Command, store *dataset.Store) error {
	out := cmd.OutOrStdout()
	if generateOutput != "" {
		f, err := os.Create(generateOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", generateOutput, err)
		}
		defer f.Close()
		out = f
	}

	type row struct {
		Context  string `json:"context"`
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	enc := json.NewEncoder(out)
	for _, r := range store.Records() {
		if err := enc.Encode(row{Context: r.Context, Question: r.Question, Answer: r.Answer}); err != nil {
			return fmt.Errorf("writing record %d: %w", r.ID, err)
		}
	}

	if generateOutput != "" && !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d record(s) to %s\n", store.Len(), generateOutput)
	}
	return nil
}
