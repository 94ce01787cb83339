package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

// Request is one completion call: the prompt plus the new user input.
type Request struct {
	Model  string
	Prompt Prompt
	Input  string
}

// Backend sends a Request to a hosted model and returns its text.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Client validates configuration and delegates a single blocking call to a Backend.
type Client struct {
	backend Backend
}

// NewClient wraps backend.
func NewClient(backend Backend) *Client {
	return &Client{backend: backend}
}

// Complete returns the model reply for input. The backend is not called when the
// credential or model identifier is missing. Backend failures and empty replies
// are reported as chat.ErrExternalService; nothing is retried. A non-empty reply
// is returned exactly as the model produced it.
func (c *Client) Complete(ctx context.Context, cfg chat.SessionConfig, prompt Prompt, input string) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if c == nil || c.backend == nil {
		return "", fmt.Errorf("%w: completion backend is not initialized", chat.ErrConfiguration)
	}

	reply, err := c.backend.Generate(ctx, Request{
		Model:  cfg.Model,
		Prompt: prompt,
		Input:  input,
	})
	if err != nil {
		return "", fmt.Errorf("%w: completion failed: %v", chat.ErrExternalService, err)
	}

	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("%w: completion returned empty content", chat.ErrExternalService)
	}

	log.Printf("[ai] generated response, model=%s, history=%d, length=%d", cfg.Model, len(prompt.History), len(reply))
	return reply, nil
}
