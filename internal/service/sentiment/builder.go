package sentiment

import (
	"context"
	"fmt"

	"github.com/zhouzirui/mingginyu/backend/internal/config"
	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
	"github.com/zhouzirui/mingginyu/backend/internal/service/ai"
)

// NewBuilder returns the classifier builder selected by cfg.Sentiment.Provider.
// Model-backed classifiers reuse the chat credential; the model defaults to the chat model.
func NewBuilder(cfg config.Config) Builder {
	return func(ctx context.Context) (Classifier, error) {
		modelName := cfg.Sentiment.Model
		if modelName == "" {
			modelName = cfg.AI.ModelName()
		}

		switch cfg.Sentiment.Provider {
		case config.SentimentLexicon, "":
			return LexiconClassifier{}, nil
		case config.SentimentLLM:
			sc := chat.SessionConfig{Model: modelName, APIKey: cfg.AI.APIKey()}
			if cfg.AI.Provider != config.ProviderArk {
				return nil, fmt.Errorf("%w: SENTIMENT_PROVIDER=llm requires LLM_PROVIDER=ark", chat.ErrConfiguration)
			}
			chatModel, err := ai.NewArkChatModel(ctx, cfg.AI, sc)
			if err != nil {
				return nil, err
			}
			classifier, err := NewChainClassifier(ctx, chatModel)
			if err != nil {
				return nil, err
			}
			return classifier, nil
		case config.SentimentOpenAI:
			apiKey := cfg.AI.OpenAIAPIKey
			if apiKey == "" {
				return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for sentiment classification", chat.ErrConfiguration)
			}
			if cfg.Sentiment.Model == "" && cfg.AI.Provider != config.ProviderOpenAI {
				modelName = config.DefaultOpenAIModel
			}
			classifier, err := NewOpenAIClassifier(ai.NewOpenAIClient(cfg.AI, apiKey), modelName)
			if err != nil {
				return nil, err
			}
			return classifier, nil
		default:
			return nil, fmt.Errorf("%w: unsupported sentiment provider %q", chat.ErrConfiguration, cfg.Sentiment.Provider)
		}
	}
}
