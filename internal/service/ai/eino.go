package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// EinoBackend runs the prompt through an eino chain: chat template, then chat model.
type EinoBackend struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewEinoBackend compiles the persona/history/query chain around chatModel.
func NewEinoBackend(ctx context.Context, chatModel model.ChatModel) (*EinoBackend, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is nil")
	}

	// The persona travels as a variable so braces inside it are never parsed as template syntax.
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &EinoBackend{chatModel: chatModel, chain: runnable}, nil
}

// Generate implements Backend.
func (b *EinoBackend) Generate(ctx context.Context, req Request) (string, error) {
	response, err := b.chain.Invoke(ctx, chainInput(req))
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil {
		return "", errors.New("chat model returned no message")
	}
	return response.Content, nil
}

// ChatModel returns the underlying chat model.
func (b *EinoBackend) ChatModel() model.ChatModel {
	return b.chatModel
}

func chainInput(req Request) map[string]any {
	return map[string]any{
		"system":  req.Prompt.System,
		"history": req.Prompt.HistoryMessages(),
		"query":   req.Input,
	}
}
