// ABOUTME: ChunkingEngine turns heterogeneous input into an ordered, finite sequence of chunks
// ABOUTME: One splitter type per algorithm behind a common Chunk(input) contract
package chunker

import (
	"errors"
	"fmt"

	"github.com/NeoVand/synthgen-sub000/internal/models"
	"github.com/NeoVand/synthgen-sub000/internal/schema"
)

// Input errors: the chunking operation never starts when one of these
// applies; they are surfaced directly to the caller.
var (
	ErrNoChunks  = errors.New("no usable chunks produced")
	ErrNoColumns = errors.New("no columns selected")
	ErrNoRows    = errors.New("no data rows to chunk")
	ErrNoRecords = errors.New("no records to chunk")
	ErrNoKeys    = errors.New("no keys selected")
)

// Input carries the source material for a chunking run. Text feeds the
// character and sentence algorithms; Rows+Columns feed the CSV
// projector; Records+Keys feed the JSON/JSONL projector.
type Input struct {
	Text    string
	Rows    [][]string
	Columns []int
	Records []any
	Keys    *schema.Tree
}

// Splitter produces a fully materialized chunk sequence from an input.
// No splitter ever emits an empty chunk.
type Splitter interface {
	Chunk(input Input) ([]string, error)
}

// NewSplitter builds the splitter for the selected algorithm
func NewSplitter(opts models.ChunkOptions) (Splitter, error) {
	opts = opts.Normalize()
	switch opts.Algorithm {
	case models.AlgorithmRecursive:
		return &RecursiveSplitter{Size: opts.ChunkSize, Overlap: opts.ChunkOverlap}, nil
	case models.AlgorithmLine:
		return &LineSplitter{}, nil
	case models.AlgorithmSentence:
		return &SentenceSplitter{Size: opts.ChunkSize, Overlap: opts.ChunkOverlap}, nil
	case models.AlgorithmMarkdown:
		return &MarkdownSplitter{}, nil
	case models.AlgorithmRollingWindow:
		return &WindowSplitter{Window: opts.WindowSize}, nil
	case models.AlgorithmCSV:
		return &CSVProjector{}, nil
	case models.AlgorithmJSONL:
		return &RecordProjector{}, nil
	default:
		return nil, fmt.Errorf("unknown chunking algorithm %q", opts.Algorithm)
	}
}

// Chunk dispatches one chunking run to the splitter for opts.Algorithm
func Chunk(input Input, opts models.ChunkOptions) ([]string, error) {
	splitter, err := NewSplitter(opts)
	if err != nil {
		return nil, err
	}
	return splitter.Chunk(input)
}
