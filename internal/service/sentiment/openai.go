package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
)

// OpenAIClassifier classifies through the Responses API with a strict JSON schema.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier returns a classifier calling model through client.
func NewOpenAIClassifier(client *openai.Client, model string) (*OpenAIClassifier, error) {
	if client == nil {
		return nil, errors.New("openai client is nil")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("sentiment model is empty")
	}
	return &OpenAIClassifier{client: client, model: model}, nil
}

type verdict struct {
	Label string  `json:"label" jsonschema:"enum=positive,enum=negative,enum=neutral"`
	Score float64 `json:"score" jsonschema:"minimum=0,maximum=1"`
}

var verdictSchema = generateSchema[verdict]()

// Classify implements Classifier.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (Result, error) {
	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(64),
		Instructions:    openai.String(classifierSystemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "SentimentVerdict",
					Schema:      verdictSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Sentiment verdict JSON"),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return Result{}, err
	}

	var out verdict
	if err := json.Unmarshal([]byte(resp.OutputText()), &out); err != nil {
		return Result{}, fmt.Errorf("unmarshal verdict: %w", err)
	}
	return Result{Label: out.Label, Score: float32(out.Score)}, nil
}

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	// Strict mode requires every property to be listed as required.
	if props, ok := m["properties"].(map[string]any); ok {
		required := make([]string, 0, len(props))
		for name := range props {
			required = append(required, name)
		}
		m["required"] = required
	}
	m["additionalProperties"] = false
	return m
}
