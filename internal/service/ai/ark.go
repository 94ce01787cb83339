package ai

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/mingginyu/backend/internal/config"
	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

// NewArkChatModel creates a Volcengine Ark chat model for the session's credential and model.
func NewArkChatModel(ctx context.Context, cfg config.AIConfig, sc chat.SessionConfig) (model.ChatModel, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	var temperature *float32
	if cfg.Temperature != nil {
		val := float32(*cfg.Temperature)
		temperature = &val
	}

	var topP *float32
	if cfg.TopP != nil {
		val := float32(*cfg.TopP)
		topP = &val
	}

	var maxTokens *int
	if cfg.MaxTokens != nil {
		val := *cfg.MaxTokens
		maxTokens = &val
	}

	// ark retries twice unless told otherwise; failures go straight back to the caller.
	retryTimes := 0

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     cfg.ArkBaseURL,
		Region:      cfg.ArkRegion,
		APIKey:      sc.APIKey,
		Model:       sc.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
		RetryTimes:  &retryTimes,
	})
}
