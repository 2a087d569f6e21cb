// ABOUTME: Record-oriented projectors: CSV/TSV rows and JSON/JSONL records to labeled chunks
// ABOUTME: Empty cells and null values are omitted; units with no content are dropped entirely
package chunker

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CSVProjector emits one chunk per data row as "<column>: <value>"
// lines. Row 0 is the header. Cells that are empty, and columns out of
// range for a short row, contribute nothing; a row with no non-empty
// selected cell is dropped.
type CSVProjector struct{}

func (p *CSVProjector) Chunk(input Input) ([]string, error) {
	if len(input.Columns) == 0 {
		return nil, ErrNoColumns
	}
	if len(input.Rows) < 2 {
		return nil, ErrNoRows
	}

	header := input.Rows[0]
	var chunks []string
	for _, row := range input.Rows[1:] {
		var lines []string
		for _, col := range input.Columns {
			if col < 0 || col >= len(header) {
				continue
			}
			var cell string
			if col < len(row) {
				cell = strings.TrimSpace(row[col])
			}
			if cell == "" {
				continue
			}
			lines = append(lines, header[col]+": "+cell)
		}
		if len(lines) > 0 {
			chunks = append(chunks, strings.Join(lines, "\n"))
		}
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}

// RecordProjector emits one chunk per JSON record from the selected
// leaf paths of the key tree. Array values expand to one labeled line
// per element with a 1-based index prefix; nested objects are
// pretty-printed; null and missing values are skipped. A record
// contributing no non-empty lines is dropped.
type RecordProjector struct{}

func (p *RecordProjector) Chunk(input Input) ([]string, error) {
	if input.Keys == nil {
		return nil, ErrNoKeys
	}
	leaves := input.Keys.SelectedLeaves()
	if len(leaves) == 0 {
		return nil, ErrNoKeys
	}
	if len(input.Records) == 0 {
		return nil, ErrNoRecords
	}

	var chunks []string
	for _, record := range input.Records {
		var lines []string
		for _, path := range leaves {
			name := path
			if i := strings.LastIndex(path, "."); i >= 0 {
				name = path[i+1:]
			}
			for _, value := range resolvePath(record, strings.Split(path, ".")) {
				lines = append(lines, labelValue(name, value)...)
			}
		}
		if len(lines) > 0 {
			chunks = append(chunks, strings.Join(lines, "\n"))
		}
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}

// resolvePath walks a dotted path through a record. Arrays encountered
// mid-path fan out over their elements so every match is collected.
func resolvePath(value any, segments []string) []any {
	if len(segments) == 0 {
		if value == nil {
			return nil
		}
		return []any{value}
	}
	switch v := value.(type) {
	case map[string]any:
		child, ok := v[segments[0]]
		if !ok {
			return nil
		}
		return resolvePath(child, segments[1:])
	case []any:
		var out []any
		for _, el := range v {
			out = append(out, resolvePath(el, segments)...)
		}
		return out
	default:
		return nil
	}
}

// labelValue renders one resolved value as labeled lines. Arrays get
// one line per element with a 1-based index prefix.
func labelValue(name string, value any) []string {
	if arr, ok := value.([]any); ok {
		var lines []string
		for i, el := range arr {
			text := formatValue(el)
			if text == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s: %d. %s", name, i+1, text))
		}
		return lines
	}
	text := formatValue(value)
	if text == "" {
		return nil
	}
	return []string{name + ": " + text}
}

// formatValue renders a scalar or nested value as display text.
// Nested objects keep their structure with newline-preserving
// indentation.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case map[string]any, []any:
		pretty, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return ""
		}
		return string(pretty)
	default:
		return fmt.Sprintf("%v", v)
	}
}
