// ABOUTME: Streaming client for an Ollama-compatible generation backend
// ABOUTME: One cancellable NDJSON stream at a time; reachability is probed, never retried
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrBackendUnavailable means the reachability probe failed before a
// stream was issued. It surfaces before any generation starts and is
// never retried automatically.
var ErrBackendUnavailable = errors.New("generation backend unreachable")

// DefaultBaseURL is the conventional local Ollama address
const DefaultBaseURL = "http://localhost:11434"

// GenerateOptions are passed through to the backend per request.
// Seed is optional; when set it is forwarded for reproducible sampling,
// though reproducibility beyond that is not guaranteed.
type GenerateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	Seed        *int64  `json:"seed,omitempty"`
	NumCtx      int     `json:"num_ctx"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options GenerateOptions `json:"options"`
}

type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Client talks to one generation backend over HTTP
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. The HTTP
// client carries no timeout: a hung backend blocks until the caller
// cancels, and there is deliberately no timeout independent of
// cancellation.
func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{},
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Ping probes backend reachability via the tags endpoint. A failure is
// reported as ErrBackendUnavailable and the caller is expected to
// fast-fail rather than retry.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
	}
	return nil
}

// Stream issues one generation request and invokes onFragment with
// coalesced text fragments until the backend signals done. Fragments
// are buffered and yielded only once the buffer reaches the flush
// threshold or contains a newline; the remainder is flushed on done.
// Malformed NDJSON lines are skipped: framing may legitimately
// straddle transport chunk boundaries. On cancellation the response
// body is closed before the error propagates.
func (c *Client) Stream(ctx context.Context, prompt string, opts GenerateOptions, onFragment func(string) error) error {
	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  true,
		Options: opts,
	})
	if err != nil {
		return fmt.Errorf("marshaling generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("sending generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend error (status %d): %s", resp.StatusCode, msg)
	}

	buffer := newFragmentBuffer(flushThreshold)
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			// A line split across a network buffer boundary is not fatal.
			continue
		}

		if chunk.Response != "" {
			if out, ready := buffer.Add(chunk.Response); ready {
				if err := onFragment(out); err != nil {
					return err
				}
			}
		}

		if chunk.Done {
			if rest := buffer.Flush(); rest != "" {
				if err := onFragment(rest); err != nil {
					return err
				}
			}
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("reading response stream: %w", err)
	}

	// Stream ended without a done marker; hand over what remains.
	if rest := buffer.Flush(); rest != "" {
		if err := onFragment(rest); err != nil {
			return err
		}
	}
	return nil
}
