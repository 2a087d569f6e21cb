// ABOUTME: Input parsing for structured sources: CSV/TSV rows and JSON/JSONL records
// ABOUTME: Malformed units (rows, lines) are skipped; parsing fails only when nothing usable remains
package chunker

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"
)

// ErrBadDelimiter means the requested field delimiter cannot be used
// with delimited data. Reported before parsing starts.
var ErrBadDelimiter = errors.New("invalid field delimiter")

// DelimiterRune converts a user-supplied delimiter string into the
// rune ParseCSV accepts. "tab" and the literal two-character "\t" are
// aliases for a tab. Line terminators, quotes, and invalid runes are
// rejected: encoding/csv cannot advance past them and would otherwise
// refuse every row.
func DelimiterRune(s string) (rune, error) {
	if s == "\\t" || s == "tab" {
		s = "\t"
	}
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadDelimiter)
	}
	d, _ := utf8.DecodeRuneInString(s)
	switch d {
	case '\n', '\r', '"', utf8.RuneError:
		return 0, fmt.Errorf("%w: %q", ErrBadDelimiter, s)
	}
	return d, nil
}

// ParseCSV reads delimiter-separated rows, tolerating ragged row
// lengths. Rows that fail to parse are logged and skipped; an error is
// returned only when no rows parse at all. The delimiter is validated
// up front: a rune the csv reader rejects would never consume input.
func ParseCSV(r io.Reader, delimiter rune) ([][]string, error) {
	switch delimiter {
	case 0, '\n', '\r', '"', utf8.RuneError:
		return nil, fmt.Errorf("%w: %q", ErrBadDelimiter, delimiter)
	}
	if !utf8.ValidRune(delimiter) {
		return nil, fmt.Errorf("%w: %q", ErrBadDelimiter, delimiter)
	}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("[Chunker] skipping malformed CSV row: %v", err)
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

// ParseRecords decodes a JSON array or JSONL document into records.
// Malformed JSONL lines are logged and skipped; an error is returned
// only when no records decode at all.
func ParseRecords(data []byte) ([]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrNoRecords
	}

	if trimmed[0] == '[' {
		var records []any
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, ErrNoRecords
		}
		if len(records) == 0 {
			return nil, ErrNoRecords
		}
		return records, nil
	}

	var records []any
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			log.Printf("[Chunker] skipping malformed JSONL line %d: %v", lineNo, err)
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}
