package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ChainClassifier asks a chat model for a JSON verdict through an eino chain.
type ChainClassifier struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewChainClassifier compiles the classification chain around chatModel.
func NewChainClassifier(ctx context.Context, chatModel model.ChatModel) (*ChainClassifier, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is nil")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage("{text}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sentiment classifier chain: %w", err)
	}
	return &ChainClassifier{chain: runnable}, nil
}

// Classify implements Classifier.
func (c *ChainClassifier) Classify(ctx context.Context, text string) (Result, error) {
	msg, err := c.chain.Invoke(ctx, map[string]any{"text": strings.TrimSpace(text)})
	if err != nil {
		return Result{}, fmt.Errorf("classifier invoke failed: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return Result{}, errors.New("classifier returned empty content")
	}
	return parseClassifierOutput(msg.Content)
}

// parseClassifierOutput extracts the first JSON object from the model output.
func parseClassifierOutput(content string) (Result, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return Result{}, errors.New("missing json object")
	}

	var result Result
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &result); err != nil {
		return Result{}, err
	}
	return result, nil
}

const classifierSystemPrompt = "You are a sentiment classifier for Korean and English chat replies. " +
	"Read the message and return only one JSON object with the fields label (one of positive, negative, neutral) " +
	"and score (a number between 0 and 1). Do not output any other text."
