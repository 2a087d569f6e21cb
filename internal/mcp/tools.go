// ABOUTME: MCP tool definitions and registration for the dataset generator server
// ABOUTME: Defines JSON schemas for the chunking, schema, dataset, and generation tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/NeoVand/synthgen-sub000/internal/config"
	"github.com/NeoVand/synthgen-sub000/internal/core"
	"github.com/NeoVand/synthgen-sub000/internal/dataset"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *dataset.Store, orch *core.Orchestrator, cfg *config.Config) *Handlers {
	handlers := &Handlers{
		store: store,
		orch:  orch,
		cfg:   cfg,
	}

	// 1. chunk_document - Split source material into dataset records
	server.AddTool(mcp.Tool{
		Name:        "chunk_document",
		Description: "Split a document into chunks and load them into the dataset as records. For csv-tsv, pass the raw file text plus a delimiter and column indices. For jsonl, call extract_schema and select_keys first, or pass raw text to use every key.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"algorithm": map[string]interface{}{
					"type":        "string",
					"description": "Chunking algorithm: recursive, line, sentence, markdown, rolling-window, csv-tsv, or jsonl",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Source text to chunk",
				},
				"chunk_size": map[string]interface{}{
					"type":        "number",
					"description": "Chunk size: characters for recursive, tokens for sentence (default from config)",
				},
				"chunk_overlap": map[string]interface{}{
					"type":        "number",
					"description": "Overlap between consecutive chunks (default from config)",
				},
				"window_size": map[string]interface{}{
					"type":        "number",
					"description": "Sentences of context on each side for rolling-window (default from config)",
				},
				"delimiter": map[string]interface{}{
					"type":        "string",
					"description": "Field delimiter for csv-tsv (default: comma)",
				},
				"columns": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "number"},
					"description": "Zero-based column indices to include for csv-tsv",
				},
				"append": map[string]interface{}{
					"type":        "boolean",
					"description": "Append to the existing dataset instead of replacing it",
				},
			},
			Required: []string{"algorithm"},
		},
	}, handlers.ChunkDocument)

	// 2. extract_schema - Discover the key tree of structured data
	server.AddTool(mcp.Tool{
		Name:        "extract_schema",
		Description: "Parse JSON or JSONL data and extract its hierarchical key tree. The tree is held for subsequent select_keys and chunk_document (jsonl) calls.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"data": map[string]interface{}{
					"type":        "string",
					"description": "Raw JSON array or JSONL text",
				},
			},
			Required: []string{"data"},
		},
	}, handlers.ExtractSchema)

	// 3. select_keys - Choose which keys feed jsonl chunking
	server.AddTool(mcp.Tool{
		Name:        "select_keys",
		Description: "Select or deselect keys in the extracted schema tree. Selecting a key selects its ancestors; deselecting a key deselects its descendants.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"paths": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Dot-separated key paths to change (e.g. 'user.address.city')",
				},
				"deselect": map[string]interface{}{
					"type":        "boolean",
					"description": "Deselect the given paths instead of selecting them",
				},
				"select_all": map[string]interface{}{
					"type":        "boolean",
					"description": "Select every key in the tree",
				},
			},
		},
	}, handlers.SelectKeys)

	// 4. generate_dataset - Start a generation batch
	server.AddTool(mcp.Tool{
		Name:        "generate_dataset",
		Description: "Start a generation batch over the dataset. Runs asynchronously; poll generation_progress for status. Calling while a batch is running cancels it instead of starting a new one.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "What to generate: qa, question, answer, or summary",
				},
			},
			Required: []string{"kind"},
		},
	}, handlers.GenerateDataset)

	// 5. generation_progress - Poll the active or last session
	server.AddTool(mcp.Tool{
		Name:        "generation_progress",
		Description: "Get the state and progress of the generation session.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GenerationProgress)

	// 6. cancel_generation - Cancel the active batch
	server.AddTool(mcp.Tool{
		Name:        "cancel_generation",
		Description: "Cancel the running generation batch. Partial text already streamed into records is kept.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.CancelGeneration)

	// 7. list_records - Dump the dataset
	server.AddTool(mcp.Tool{
		Name:        "list_records",
		Description: "List all dataset records in collection order.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListRecords)

	// 8. select_records - Limit generation to a subset
	server.AddTool(mcp.Tool{
		Name:        "select_records",
		Description: "Mark records as selected or deselected. When any record is selected, generation operates on the selected subset only.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "number"},
					"description": "Record ids to change",
				},
				"selected": map[string]interface{}{
					"type":        "boolean",
					"description": "Selection state to apply (default: true)",
					"default":     true,
				},
			},
			Required: []string{"ids"},
		},
	}, handlers.SelectRecords)

	// 9. update_record - Edit a record field
	server.AddTool(mcp.Tool{
		Name:        "update_record",
		Description: "Overwrite the question or answer of a record.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "number",
					"description": "Record id",
				},
				"field": map[string]interface{}{
					"type":        "string",
					"description": "Field to update: question or answer",
				},
				"value": map[string]interface{}{
					"type":        "string",
					"description": "New field value",
				},
			},
			Required: []string{"id", "field", "value"},
		},
	}, handlers.UpdateRecord)

	// 10. delete_record - Remove a record
	server.AddTool(mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a record from the dataset. Remaining records keep their ids and order.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "number",
					"description": "Record id to delete",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.DeleteRecord)

	return handlers
}
