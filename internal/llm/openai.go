package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/poolmart/poolbot/internal/config"
	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/pkg/log"
)

// structuredTemperature keeps JSON-mode output near-deterministic.
const structuredTemperature = 0.1

// OpenAI implements core.Generator on the OpenAI chat completions API.
type OpenAI struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

func NewOpenAI(cfg *config.LLMConfig) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	return &OpenAI{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (o *OpenAI) Generate(ctx context.Context, messages []core.Message, opts core.GenerateOptions) (string, error) {
	temperature := o.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}
	maxTokens := o.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(o.model),
		Messages:    toParams(messages),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// GenerateObject runs one JSON-mode completion and unmarshals the reply into
// out. The schema instruction rides on an extra system message so callers
// only supply their domain prompt.
func (o *OpenAI) GenerateObject(ctx context.Context, messages []core.Message, out any) error {
	instruction := core.System(
		"You must respond with a single valid JSON object and nothing else. " +
			"No explanatory text, no markdown fences, just the JSON object with all required fields.")
	params := toParams(append([]core.Message{instruction}, messages...))

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(o.model),
		Messages:    params,
		Temperature: openai.Float(structuredTemperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return fmt.Errorf("structured completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return fmt.Errorf("structured completion: empty choices")
	}

	raw := completion.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.FromCtx(ctx).Debug().Str("raw", raw).Msg("structured output failed to parse")
		return fmt.Errorf("parse structured output: %w", err)
	}
	return nil
}

func toParams(messages []core.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case core.RoleSystem:
			params = append(params, openai.SystemMessage(msg.Content))
		case core.RoleAssistant:
			params = append(params, openai.AssistantMessage(msg.Content))
		default:
			params = append(params, openai.UserMessage(msg.Content))
		}
	}
	return params
}
