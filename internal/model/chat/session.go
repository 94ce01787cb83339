package chat

import (
	"fmt"
	"strings"
	"time"
)

// State is the lifecycle position of a chat session.
type State string

const (
	StateNotStarted State = "not_started"
	StateActive     State = "active"
)

// Session captures a transient anonymous conversation.
type Session struct {
	ID        string    `json:"id"`
	PersonaID string    `json:"personaId"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionConfig is loaded once when a session starts and never mutated afterwards.
type SessionConfig struct {
	Model       string `json:"-"`
	APIKey      string `json:"-"`
	PersonaText string `json:"-"`
}

// Validate checks the credential and model identifier required before any completion call.
func (c SessionConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: API key is not set", ErrConfiguration)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model name must be provided", ErrConfiguration)
	}
	return nil
}
