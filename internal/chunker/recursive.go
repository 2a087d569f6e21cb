// ABOUTME: RecursiveSplitter greedily fills character-sized chunks, breaking at natural boundaries
// ABOUTME: Break preference: paragraph > sentence > word > hard character cut
package chunker

type RecursiveSplitter struct {
	Size    int // maximum chunk length in characters
	Overlap int // characters carried from the end of the previous chunk
}

func (s *RecursiveSplitter) Chunk(input Input) ([]string, error) {
	runes := []rune(input.Text)
	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + s.Size
		if end >= len(runes) {
			if tail := string(runes[start:]); len(tail) > 0 {
				chunks = append(chunks, tail)
			}
			break
		}

		cut := findCut(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))

		next := cut - s.Overlap
		if next <= start {
			// Overlap would stall or walk backwards; forward progress
			// outranks the requested overlap.
			next = cut
		}
		start = next
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}

// findCut returns the best break position in (start, end], scanning
// backwards from the size limit for a paragraph break, then a sentence
// ending, then a word boundary, falling back to a hard cut at end.
func findCut(runes []rune, start, end int) int {
	// Paragraph: cut after a blank line.
	for i := end - 1; i > start; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	// Sentence: cut after terminal punctuation followed by whitespace.
	for i := end - 1; i > start; i-- {
		if isSpace(runes[i]) && i > start && isSentenceEnd(runes[i-1]) {
			return i + 1
		}
	}
	// Word: cut after the last whitespace.
	for i := end - 1; i > start; i-- {
		if isSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
