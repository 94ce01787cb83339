package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Provider names the hosted completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderArk    Provider = "ark"
)

// DefaultOpenAIModel is the model the chatbot uses when none is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Persona   PersonaConfig
	Sentiment SentimentConfig
	Display   DisplayConfig
}

// Load 从环境变量加载配置。
// Credentials are not required here: a session refuses to start without them.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	addr, err := normalizeAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	provider := Provider(strings.ToLower(strings.TrimSpace(string(cfg.AI.Provider))))
	switch provider {
	case ProviderOpenAI, ProviderArk:
		cfg.AI.Provider = provider
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER value: %q", cfg.AI.Provider)
	}

	switch cfg.Sentiment.Provider {
	case SentimentLexicon, SentimentLLM, SentimentOpenAI:
	default:
		return nil, fmt.Errorf("invalid SENTIMENT_PROVIDER value: %q", cfg.Sentiment.Provider)
	}

	if cfg.AI.MaxTokens != nil && *cfg.AI.MaxTokens < 1 {
		return nil, fmt.Errorf("invalid LLM_MAX_TOKENS value: %d", *cfg.AI.MaxTokens)
	}
	if cfg.Display.TypingDelay < 0 {
		cfg.Display.TypingDelay = 0
	}

	return cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Addr string
}

// normalizeAddr 解析服务器监听地址。
func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider      Provider `env:"LLM_PROVIDER" envDefault:"openai"`
	Model         string   `env:"LLM_MODEL"`
	OpenAIAPIKey  string   `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string   `env:"OPENAI_BASE_URL"`
	ArkAPIKey     string   `env:"ARK_API_KEY"`
	ArkBaseURL    string   `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	ArkRegion     string   `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature   *float64 `env:"LLM_TEMPERATURE"`
	TopP          *float64 `env:"LLM_TOP_P"`
	MaxTokens     *int     `env:"LLM_MAX_TOKENS"`
}

// APIKey returns the credential of the selected provider.
func (c AIConfig) APIKey() string {
	if c.Provider == ProviderArk {
		return strings.TrimSpace(c.ArkAPIKey)
	}
	return strings.TrimSpace(c.OpenAIAPIKey)
}

// ModelName returns the configured model, falling back to the OpenAI default.
// Ark endpoints have no sensible default.
func (c AIConfig) ModelName() string {
	if model := strings.TrimSpace(c.Model); model != "" {
		return model
	}
	if c.Provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return ""
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.APIKey() != "" && c.ModelName() != ""
}

// PersonaConfig points at the persona catalogue.
type PersonaConfig struct {
	Dir       string `env:"PERSONA_DIR" envDefault:"prompt"`
	DefaultID string `env:"PERSONA_DEFAULT" envDefault:"mingginyu"`
}

// SentimentProvider selects the classifier behind reply annotation.
type SentimentProvider string

const (
	SentimentLexicon SentimentProvider = "lexicon"
	SentimentLLM     SentimentProvider = "llm"
	SentimentOpenAI  SentimentProvider = "openai"
)

// SentimentConfig 控制回复情感标注。
type SentimentConfig struct {
	Enabled  bool              `env:"SENTIMENT_ENABLED" envDefault:"false"`
	Provider SentimentProvider `env:"SENTIMENT_PROVIDER" envDefault:"lexicon"`
	Model    string            `env:"SENTIMENT_MODEL"`
}

// DisplayConfig paces the word-by-word reveal of replies.
type DisplayConfig struct {
	TypingDelay time.Duration `env:"TYPING_DELAY" envDefault:"50ms"`
}
