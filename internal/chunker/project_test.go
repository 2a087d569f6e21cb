// ABOUTME: Tests for the CSV and JSON record projectors
// ABOUTME: Covers empty-cell omission, row dropping, array labeling, and null skipping
package chunker

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/NeoVand/synthgen-sub000/internal/schema"
)

func TestCSVProjector(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		columns []int
		want    []string
		wantErr error
	}{
		{
			name:    "empty cell omitted not empty-lined",
			rows:    [][]string{{"a", "b"}, {"1", ""}},
			columns: []int{0, 1},
			want:    []string{"a: 1"},
		},
		{
			name:    "full row keeps all selected columns",
			rows:    [][]string{{"a", "b"}, {"x", "y"}},
			columns: []int{0, 1},
			want:    []string{"a: x\nb: y"},
		},
		{
			name:    "row with no non-empty selected cell dropped",
			rows:    [][]string{{"a", "b"}, {"", ""}, {"v", "w"}},
			columns: []int{0, 1},
			want:    []string{"a: v\nb: w"},
		},
		{
			name:    "unselected columns ignored",
			rows:    [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
			columns: []int{2},
			want:    []string{"c: 3"},
		},
		{
			name:    "short row treated as empty cells",
			rows:    [][]string{{"a", "b"}, {"only"}},
			columns: []int{0, 1},
			want:    []string{"a: only"},
		},
		{
			name:    "out of range column is an empty cell",
			rows:    [][]string{{"a"}, {"1"}},
			columns: []int{0, 5},
			want:    []string{"a: 1"},
		},
		{
			name:    "no columns selected",
			rows:    [][]string{{"a"}, {"1"}},
			columns: nil,
			wantErr: ErrNoColumns,
		},
		{
			name:    "no data rows",
			rows:    [][]string{{"a", "b"}},
			columns: []int{0},
			wantErr: ErrNoRows,
		},
		{
			name:    "all rows empty yields no chunks",
			rows:    [][]string{{"a"}, {""}, {""}},
			columns: []int{0},
			wantErr: ErrNoChunks,
		},
	}

	p := &CSVProjector{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Chunk(Input{Rows: tt.rows, Columns: tt.columns})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Chunk() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Chunk() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Chunk() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func projectorTree(t *testing.T, records []any, select_ ...string) *schema.Tree {
	t.Helper()
	tree, err := schema.Extract(records)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	for _, path := range select_ {
		if !tree.Select(path) {
			t.Fatalf("unknown path %q", path)
		}
	}
	return tree
}

func jsonRecords(t *testing.T, raw ...string) []any {
	t.Helper()
	records := make([]any, 0, len(raw))
	for _, r := range raw {
		var v any
		if err := json.Unmarshal([]byte(r), &v); err != nil {
			t.Fatalf("bad test record %q: %v", r, err)
		}
		records = append(records, v)
	}
	return records
}

func TestRecordProjector_ScalarFields(t *testing.T) {
	records := jsonRecords(t,
		`{"title":"First","body":"text one"}`,
		`{"title":"Second","body":"text two"}`,
	)
	tree := projectorTree(t, records, "title", "body")

	p := &RecordProjector{}
	chunks, err := p.Chunk(Input{Records: records, Keys: tree})
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0] != "body: text one\ntitle: First" {
		t.Errorf("chunk 0 = %q", chunks[0])
	}
}

func TestRecordProjector_ArrayIndexing(t *testing.T) {
	records := jsonRecords(t, `{"tags":["red","green","blue"]}`)
	tree := projectorTree(t, records, "tags")

	p := &RecordProjector{}
	chunks, err := p.Chunk(Input{Records: records, Keys: tree})
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	want := "tags: 1. red\ntags: 2. green\ntags: 3. blue"
	if chunks[0] != want {
		t.Errorf("chunk = %q, want %q", chunks[0], want)
	}
}

func TestRecordProjector_NullAndMissingSkipped(t *testing.T) {
	records := jsonRecords(t,
		`{"title":"has title","note":null}`,
		`{"note":"only note"}`,
		`{"title":null,"note":null}`,
	)
	tree := projectorTree(t, records, "title", "note")

	p := &RecordProjector{}
	chunks, err := p.Chunk(Input{Records: records, Keys: tree})
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	// The third record contributes no non-empty lines and is dropped.
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %v", len(chunks), chunks)
	}
	if chunks[0] != "title: has title" {
		t.Errorf("chunk 0 = %q", chunks[0])
	}
	if chunks[1] != "note: only note" {
		t.Errorf("chunk 1 = %q", chunks[1])
	}
}

func TestRecordProjector_NestedValuesThroughArrays(t *testing.T) {
	records := jsonRecords(t, `{"items":[{"name":"hammer"},{"name":"wrench"}]}`)
	tree := projectorTree(t, records, "items.name")

	// Selecting a leaf under an array must have selected the array
	// parent as well; deselecting the parent clears the leaf.
	parent, _ := tree.Node("items")
	if !parent.Selected {
		t.Fatal("array parent not selected after selecting its leaf")
	}

	p := &RecordProjector{}
	chunks, err := p.Chunk(Input{Records: records, Keys: tree})
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	want := "name: hammer\nname: wrench"
	if chunks[0] != want {
		t.Errorf("chunk = %q, want %q", chunks[0], want)
	}

	tree.Deselect("items")
	if leaf, _ := tree.Node("items.name"); leaf.Selected {
		t.Error("leaf still selected after deselecting array parent")
	}
}

func TestRecordProjector_NestedLeafResolution(t *testing.T) {
	records := jsonRecords(t, `{"meta":{"author":"b"},"title":"x"}`)
	tree, err := schema.Extract(records)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	tree.Select("meta.author")
	tree.Select("title")

	p := &RecordProjector{}
	chunks, err := p.Chunk(Input{Records: records, Keys: tree})
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if !strings.Contains(chunks[0], "author: b") {
		t.Errorf("chunk = %q, want resolved nested scalar", chunks[0])
	}
}

func TestRecordProjector_NoKeysSelected(t *testing.T) {
	records := jsonRecords(t, `{"a":1}`)
	tree, err := schema.Extract(records)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	p := &RecordProjector{}
	if _, err := p.Chunk(Input{Records: records, Keys: tree}); !errors.Is(err, ErrNoKeys) {
		t.Errorf("Chunk() error = %v, want ErrNoKeys", err)
	}
}
