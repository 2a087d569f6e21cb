// ABOUTME: Line and markdown splitters: structural chunking with no size enforcement
// ABOUTME: Lines drop blanks; markdown splits one chunk per heading-delimited section
package chunker

import (
	"regexp"
	"strings"
)

// LineSplitter emits one chunk per non-blank line; blank lines are
// dropped rather than preserved as empty chunks.
type LineSplitter struct{}

func (s *LineSplitter) Chunk(input Input) ([]string, error) {
	var chunks []string
	for _, line := range strings.Split(input.Text, "\n") {
		line = strings.TrimRight(line, "\r")
		// Blank check on the trimmed form; the emitted chunk keeps its
		// leading indentation, which carries meaning in code and lists.
		if strings.TrimSpace(line) != "" {
			chunks = append(chunks, line)
		}
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}

var headingRe = regexp.MustCompile(`^#{1,6}\s`)

// MarkdownSplitter splits at ATX heading boundaries, one chunk per
// section. Sections may exceed any nominal chunk size; preserving
// document structure outranks uniform sizing here.
type MarkdownSplitter struct{}

func (s *MarkdownSplitter) Chunk(input Input) ([]string, error) {
	var chunks []string
	var section []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(section, "\n"))
		if text != "" {
			chunks = append(chunks, text)
		}
		section = section[:0]
	}

	for _, line := range strings.Split(input.Text, "\n") {
		if headingRe.MatchString(line) {
			flush()
		}
		section = append(section, line)
	}
	flush()

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}
