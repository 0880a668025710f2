// Package ollama provides a streaming completion adapter using a local
// Ollama instance.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure CompletionService implements the interface.
var _ driven.CompletionService = (*CompletionService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 10 * time.Second // ping only; generation runs on the request context
)

// Config holds configuration for the Ollama completion service.
type Config struct {
	// BaseURL is the Ollama server URL (default: http://localhost:11434).
	BaseURL string

	// Model is the chat model to use (default: llama3.2).
	Model string
}

// CompletionService streams completions from a local Ollama server.
type CompletionService struct {
	client  *http.Client
	baseURL string
	model   string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateChunk is one line of the newline-delimited JSON stream.
type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewCompletionService creates a new Ollama completion service.
func NewCompletionService(cfg Config) (*CompletionService, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	// No client-level timeout: generation on local hardware can be slow
	// and streams for its full duration. The context handles cancellation.
	return &CompletionService{
		client:  &http.Client{},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}, nil
}

// StreamComplete generates an answer for the prompt, delivering each
// response fragment through the handler. Ollama streams newline-delimited
// JSON objects; the final object carries done=true.
func (s *CompletionService) StreamComplete(ctx context.Context, prompt string, handler driven.StreamHandler) error {
	jsonBody, err := json.Marshal(generateRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: true,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: is Ollama running? (%v)", domain.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: ollama error (status %d): %s", domain.ErrGeneration, resp.StatusCode, string(body))
	}

	if handler.OnStart != nil {
		handler.OnStart()
	}

	decoder := json.NewDecoder(resp.Body)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var chunk generateChunk
		if err := decoder.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: decode stream chunk: %v", domain.ErrGeneration, err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("%w: %s", domain.ErrGeneration, chunk.Error)
		}
		if chunk.Response != "" && handler.OnToken != nil {
			handler.OnToken(chunk.Response)
		}
		if chunk.Done {
			return nil
		}
	}
}

// ModelName returns the name of the chat model being used.
func (s *CompletionService) ModelName() string {
	return s.model
}

// Ping validates the Ollama server is reachable.
func (s *CompletionService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: is Ollama running? (%w)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: server returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (s *CompletionService) Close() error {
	return nil
}
