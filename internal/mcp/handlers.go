// ABOUTME: MCP tool handler implementations for the dataset generator server
// ABOUTME: Contains handler implementations with proper error handling for all 10 tools
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NeoVand/synthgen-sub000/internal/chunker"
	"github.com/NeoVand/synthgen-sub000/internal/config"
	"github.com/NeoVand/synthgen-sub000/internal/core"
	"github.com/NeoVand/synthgen-sub000/internal/dataset"
	"github.com/NeoVand/synthgen-sub000/internal/models"
	"github.com/NeoVand/synthgen-sub000/internal/schema"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store *dataset.Store
	orch  *core.Orchestrator
	cfg   *config.Config

	// Latest extracted structured data, held between extract_schema,
	// select_keys, and chunk_document (jsonl) calls.
	mu      sync.Mutex
	records []any
	keys    *schema.Tree
}

// ChunkDocument handles the chunk_document tool
func (h *Handlers) ChunkDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	algName, err := request.RequireString("algorithm")
	if err != nil {
		return mcp.NewToolResultError("algorithm argument is required and must be a string"), nil
	}
	algorithm, err := models.ParseAlgorithm(algName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := h.cfg.ChunkOptions(algorithm)
	if v := request.GetInt("chunk_size", 0); v > 0 {
		opts.ChunkSize = v
	}
	if v := request.GetInt("chunk_overlap", -1); v >= 0 {
		opts.ChunkOverlap = v
	}
	if v := request.GetInt("window_size", 0); v > 0 {
		opts.WindowSize = v
	}

	var input chunker.Input
	switch algorithm {
	case models.AlgorithmCSV:
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text argument is required for csv-tsv chunking"), nil
		}
		d, err := chunker.DelimiterRune(request.GetString("delimiter", ","))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		rows, err := chunker.ParseCSV(strings.NewReader(text), d)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("parsing delimited data: %v", err)), nil
		}
		input = chunker.Input{Rows: rows, Columns: intArray(request, "columns")}

	case models.AlgorithmJSONL:
		records, keys, errMsg := h.structuredInput(request)
		if errMsg != "" {
			return mcp.NewToolResultError(errMsg), nil
		}
		input = chunker.Input{Records: records, Keys: keys}

	default:
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text argument is required and must be a string"), nil
		}
		input = chunker.Input{Text: text}
	}

	chunks, err := chunker.Chunk(input, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chunking failed: %v", err)), nil
	}

	var records []models.QARecord
	if request.GetBool("append", false) {
		records = h.store.AppendFrom(chunks)
	} else {
		records = h.store.CreateFrom(chunks)
	}

	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}

	return jsonResult(map[string]interface{}{
		"algorithm":    string(algorithm),
		"record_count": len(records),
		"record_ids":   ids,
		"dataset_size": h.store.Len(),
	})
}

// structuredInput resolves the records and key tree for jsonl chunking.
// Raw text takes precedence and uses every key; otherwise the data held
// from the last extract_schema call is used with its current selection.
func (h *Handlers) structuredInput(request mcp.CallToolRequest) ([]any, *schema.Tree, string) {
	if text := request.GetString("text", ""); text != "" {
		records, err := chunker.ParseRecords([]byte(text))
		if err != nil {
			return nil, nil, fmt.Sprintf("parsing structured data: %v", err)
		}
		keys, err := schema.Extract(records)
		if err != nil {
			return nil, nil, fmt.Sprintf("extracting schema: %v", err)
		}
		keys.SelectAll()
		return records, keys, ""
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.keys == nil {
		return nil, nil, "no schema extracted; call extract_schema first or pass text"
	}
	return h.records, h.keys, ""
}

// ExtractSchema handles the extract_schema tool
func (h *Handlers) ExtractSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := request.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError("data argument is required and must be a string"), nil
	}

	records, err := chunker.ParseRecords([]byte(data))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parsing structured data: %v", err)), nil
	}
	keys, err := schema.Extract(records)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extracting schema: %v", err)), nil
	}

	h.mu.Lock()
	h.records = records
	h.keys = keys
	h.mu.Unlock()

	return jsonResult(map[string]interface{}{
		"record_count": len(records),
		"keys":         keyNodes(keys),
	})
}

// SelectKeys handles the select_keys tool
func (h *Handlers) SelectKeys(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.keys == nil {
		return mcp.NewToolResultError("no schema extracted; call extract_schema first"), nil
	}

	if request.GetBool("select_all", false) {
		h.keys.SelectAll()
		return jsonResult(map[string]interface{}{
			"selected_keys": h.keys.SelectedLeaves(),
		})
	}

	paths := stringArray(request, "paths")
	if len(paths) == 0 {
		return mcp.NewToolResultError("paths argument is required unless select_all is set"), nil
	}

	deselect := request.GetBool("deselect", false)
	unknown := []string{}
	for _, path := range paths {
		var ok bool
		if deselect {
			ok = h.keys.Deselect(path)
		} else {
			ok = h.keys.Select(path)
		}
		if !ok {
			unknown = append(unknown, path)
		}
	}
	if len(unknown) > 0 {
		return mcp.NewToolResultError(fmt.Sprintf("unknown key paths: %s", strings.Join(unknown, ", "))), nil
	}

	return jsonResult(map[string]interface{}{
		"selected_keys": h.keys.SelectedLeaves(),
	})
}

// GenerateDataset handles the generate_dataset tool
func (h *Handlers) GenerateDataset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kindName, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("kind argument is required and must be a string"), nil
	}
	kind, ok := models.ParseGenerationKind(kindName)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown generation kind %q", kindName)), nil
	}

	// The batch outlives this request; it is cancelled through
	// cancel_generation, not through the request context.
	session, err := h.orch.Start(context.Background(), kind)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"session_id": session.ID,
		"kind":       string(session.Kind),
		"total":      session.Progress.Total,
	})
}

// GenerationProgress handles the generation_progress tool
func (h *Handlers) GenerationProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session := h.orch.Session()

	response := map[string]interface{}{
		"session_id": session.ID,
		"kind":       string(session.Kind),
		"state":      string(session.State),
		"completed":  session.Progress.Completed,
		"total":      session.Progress.Total,
	}
	if summary := h.orch.Summary(); summary != "" {
		response["summary"] = summary
	}

	return jsonResult(response)
}

// CancelGeneration handles the cancel_generation tool
func (h *Handlers) CancelGeneration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	running := h.orch.Session().Running()
	h.orch.Cancel()

	return jsonResult(map[string]interface{}{
		"cancellation_requested": running,
	})
}

// ListRecords handles the list_records tool
func (h *Handlers) ListRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records := h.store.Records()

	return jsonResult(map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// SelectRecords handles the select_records tool
func (h *Handlers) SelectRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := intArray(request, "ids")
	if len(ids) == 0 {
		return mcp.NewToolResultError("ids argument is required and must be an array of numbers"), nil
	}
	selected := request.GetBool("selected", true)

	unknown := []int{}
	for _, id := range ids {
		if !h.store.SetSelected(id, selected) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return mcp.NewToolResultError(fmt.Sprintf("unknown record ids: %v", unknown)), nil
	}

	return jsonResult(map[string]interface{}{
		"changed":       len(ids),
		"selected":      selected,
		"has_selection": h.store.HasSelection(),
	})
}

// UpdateRecord handles the update_record tool
func (h *Handlers) UpdateRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	fieldName, err := request.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError("field argument is required and must be a string"), nil
	}
	field := models.Field(fieldName)
	if !field.IsValid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown field %q, must be question or answer", fieldName)), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value argument is required and must be a string"), nil
	}

	if !h.store.UpdateField(id, field, value) {
		return mcp.NewToolResultError(fmt.Sprintf("record %d not found", id)), nil
	}

	record, _ := h.store.Get(id)
	return jsonResult(map[string]interface{}{
		"record": record,
	})
}

// DeleteRecord handles the delete_record tool
func (h *Handlers) DeleteRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	if !h.store.Delete(id) {
		return mcp.NewToolResultError(fmt.Sprintf("record %d not found", id)), nil
	}

	return jsonResult(map[string]interface{}{
		"deleted":      id,
		"dataset_size": h.store.Len(),
	})
}

// keyNodes flattens the key tree into response maps
func keyNodes(tree *schema.Tree) []map[string]interface{} {
	nodes := tree.Nodes()
	out := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, map[string]interface{}{
			"path":     n.Path,
			"level":    n.Level,
			"is_leaf":  n.IsLeaf,
			"is_array": n.IsArray,
			"selected": n.Selected,
		})
	}
	return out
}

// jsonResult marshals a response map into a text tool result
func jsonResult(response map[string]interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// intArray extracts an integer array argument from the request
func intArray(request mcp.CallToolRequest, key string) []int {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	result := make([]int, 0, len(raw))
	for _, item := range raw {
		if n, ok := item.(float64); ok {
			result = append(result, int(n))
		}
	}
	return result
}

// stringArray extracts a string array argument from the request
func stringArray(request mcp.CallToolRequest, key string) []string {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		if str, ok := item.(string); ok {
			result = append(result, str)
		}
	}
	return result
}
