// ABOUTME: Algorithm enumerates the chunking strategies and ChunkOptions carries their tuning
// ABOUTME: Sizes are characters for character-oriented algorithms, tokens (chars/4) for token-oriented ones
package models

import "fmt"

// Algorithm selects a chunking strategy
type Algorithm string

const (
	AlgorithmRecursive     Algorithm = "recursive"
	AlgorithmLine          Algorithm = "line"
	AlgorithmSentence      Algorithm = "sentence"
	AlgorithmMarkdown      Algorithm = "markdown"
	AlgorithmRollingWindow Algorithm = "rolling-window"
	AlgorithmCSV           Algorithm = "csv-tsv"
	AlgorithmJSONL         Algorithm = "jsonl"
)

// IsValid checks whether the algorithm is a known strategy
func (a Algorithm) IsValid() bool {
	switch a {
	case AlgorithmRecursive, AlgorithmLine, AlgorithmSentence, AlgorithmMarkdown,
		AlgorithmRollingWindow, AlgorithmCSV, AlgorithmJSONL:
		return true
	}
	return false
}

// ParseAlgorithm converts a user-supplied name into an Algorithm
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown chunking algorithm %q", s)
	}
	return a, nil
}

// ChunkOptions tunes a chunking run. ChunkSize and ChunkOverlap are
// characters for the recursive splitter and tokens for the sentence
// splitter; WindowSize is a sentence count for the rolling window.
type ChunkOptions struct {
	Algorithm    Algorithm
	ChunkSize    int
	ChunkOverlap int
	WindowSize   int
}

// Default chunking parameters, applied when a value is zero or negative.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultWindowSize   = 2
)

// DefaultChunkOptions returns options with defaults for the given algorithm
func DefaultChunkOptions(algorithm Algorithm) ChunkOptions {
	return ChunkOptions{
		Algorithm:    algorithm,
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		WindowSize:   DefaultWindowSize,
	}
}

// Normalize fills unset values with defaults. An overlap at or above
// the chunk size is not rejected; splitters guarantee forward progress
// on their own.
func (o ChunkOptions) Normalize() ChunkOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkOverlap < 0 {
		o.ChunkOverlap = DefaultChunkOverlap
	}
	if o.WindowSize <= 0 {
		o.WindowSize = DefaultWindowSize
	}
	return o
}
