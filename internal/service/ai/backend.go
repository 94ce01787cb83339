package ai

import (
	"context"
	"fmt"

	"github.com/zhouzirui/mingginyu/backend/internal/config"
	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

// BackendFactory creates the completion backend for a starting session.
type BackendFactory func(ctx context.Context, sc chat.SessionConfig) (Backend, error)

// NewBackendFactory returns a factory for the provider selected in cfg.
func NewBackendFactory(cfg config.AIConfig) BackendFactory {
	return func(ctx context.Context, sc chat.SessionConfig) (Backend, error) {
		return NewBackend(ctx, cfg, sc)
	}
}

// NewBackend builds an Ark (eino) or OpenAI backend bound to the session credential.
func NewBackend(ctx context.Context, cfg config.AIConfig, sc chat.SessionConfig) (Backend, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case config.ProviderArk:
		chatModel, err := NewArkChatModel(ctx, cfg, sc)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create chat model: %v", chat.ErrConfiguration, err)
		}
		backend, err := NewEinoBackend(ctx, chatModel)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", chat.ErrConfiguration, err)
		}
		return backend, nil
	case config.ProviderOpenAI, "":
		return NewOpenAIBackend(NewOpenAIClient(cfg, sc.APIKey), cfg), nil
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", chat.ErrConfiguration, cfg.Provider)
	}
}
