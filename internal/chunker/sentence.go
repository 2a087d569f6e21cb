// ABOUTME: Sentence-based splitters: token-budgeted packing and the rolling sentence window
// ABOUTME: Sentences are never split mid-way; token counts use the chars/4 heuristic
package chunker

import (
	"regexp"
	"strings"

	"github.com/NeoVand/synthgen-sub000/internal/util"
)

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// SplitSentences breaks text into trimmed sentences. Text with no
// terminal punctuation is treated as a single sentence, and a trailing
// unterminated fragment is kept as its own sentence.
func SplitSentences(text string) []string {
	matches := sentenceRe.FindAllStringIndex(text, -1)

	var sentences []string
	last := 0
	for _, m := range matches {
		if s := strings.TrimSpace(text[m[0]:m[1]]); s != "" {
			sentences = append(sentences, s)
		}
		last = m[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// SentenceSplitter packs whole sentences into chunks of at most Size
// tokens, carrying up to Overlap tokens of trailing sentences into the
// next chunk.
type SentenceSplitter struct {
	Size    int // maximum chunk length in tokens
	Overlap int // tokens of sentence carry-over
}

func (s *SentenceSplitter) Chunk(input Input) ([]string, error) {
	sentences := SplitSentences(input.Text)
	if len(sentences) == 0 {
		return nil, ErrNoChunks
	}

	var chunks []string
	var current []string
	currentTokens := 0

	for _, sentence := range sentences {
		tokens := util.EstimateTokens(sentence)
		if currentTokens > 0 && currentTokens+tokens > s.Size {
			chunks = append(chunks, strings.Join(current, " "))
			current, currentTokens = s.carryOver(current)
		}
		current = append(current, sentence)
		currentTokens += tokens
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks, nil
}

// carryOver takes whole sentences from the end of a finished chunk
// until the overlap token budget is spent.
func (s *SentenceSplitter) carryOver(chunk []string) ([]string, int) {
	if s.Overlap <= 0 {
		return nil, 0
	}
	var carried []string
	tokens := 0
	for i := len(chunk) - 1; i >= 0; i-- {
		t := util.EstimateTokens(chunk[i])
		if tokens+t > s.Overlap {
			break
		}
		carried = append([]string{chunk[i]}, carried...)
		tokens += t
	}
	// Carrying the whole chunk forward would stall packing.
	if len(carried) == len(chunk) && len(carried) > 0 {
		carried = carried[1:]
		tokens -= util.EstimateTokens(chunk[0])
	}
	return carried, tokens
}

// WindowSplitter emits one chunk per sentence: the sentence plus up to
// Window sentences of context on each side, truncated at the document
// boundaries.
type WindowSplitter struct {
	Window int
}

func (s *WindowSplitter) Chunk(input Input) ([]string, error) {
	sentences := SplitSentences(input.Text)
	if len(sentences) == 0 {
		return nil, ErrNoChunks
	}

	chunks := make([]string, 0, len(sentences))
	for i := range sentences {
		lo := i - s.Window
		if lo < 0 {
			lo = 0
		}
		hi := i + s.Window + 1
		if hi > len(sentences) {
			hi = len(sentences)
		}
		chunks = append(chunks, strings.Join(sentences[lo:hi], " "))
	}
	return chunks, nil
}
