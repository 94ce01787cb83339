package ai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/zhouzirui/mingginyu/backend/internal/config"
	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

// NewOpenAIClient builds an OpenAI API client for the session credential.
// The SDK's own retries are disabled: a failed call is reported to the user as is.
func NewOpenAIClient(cfg config.AIConfig, apiKey string) *openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	client := openai.NewClient(opts...)
	return &client
}

// OpenAIBackend sends the prompt through the OpenAI Responses API: the persona
// becomes the instructions and history plus input become the input items.
type OpenAIBackend struct {
	client      *openai.Client
	temperature *float64
	topP        *float64
	maxTokens   *int
}

// NewOpenAIBackend wraps client with the sampling options from cfg.
func NewOpenAIBackend(client *openai.Client, cfg config.AIConfig) *OpenAIBackend {
	return &OpenAIBackend{
		client:      client,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
	}
}

// Generate implements Backend.
func (b *OpenAIBackend) Generate(ctx context.Context, req Request) (string, error) {
	if b.client == nil {
		return "", errors.New("openai client is nil")
	}

	params := responses.ResponseNewParams{
		Model:        req.Model,
		Instructions: openai.String(req.Prompt.System),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: inputItems(req),
		},
	}
	if b.temperature != nil {
		params.Temperature = openai.Float(*b.temperature)
	}
	if b.topP != nil {
		params.TopP = openai.Float(*b.topP)
	}
	if b.maxTokens != nil {
		params.MaxOutputTokens = openai.Int(int64(*b.maxTokens))
	}

	resp, err := b.client.Responses.New(ctx, params)
	if err != nil {
		return "", err
	}
	return resp.OutputText(), nil
}

func inputItems(req Request) []responses.ResponseInputItemUnionParam {
	items := make([]responses.ResponseInputItemUnionParam, 0, len(req.Prompt.History)+1)
	for _, turn := range req.Prompt.History {
		switch turn.Role {
		case chat.RoleUser:
			items = append(items, responses.ResponseInputItemParamOfMessage(turn.Text, responses.EasyInputMessageRoleUser))
		case chat.RoleAssistant:
			items = append(items, responses.ResponseInputItemParamOfMessage(turn.Text, responses.EasyInputMessageRoleAssistant))
		}
	}
	return append(items, responses.ResponseInputItemParamOfMessage(req.Input, responses.EasyInputMessageRoleUser))
}
