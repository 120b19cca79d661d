package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// DefaultOpenAIModel is used when no model is configured
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider answers through the chat completions API in JSON mode
type OpenAIProvider struct {
	client *openai.Client
	opts   Options
	logger *zap.Logger
}

// NewOpenAIProvider creates an OpenAI provider
func NewOpenAIProvider(opts Options) (*OpenAIProvider, error) {
	if opts.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	opts = opts.withDefaults(DefaultOpenAIModel)

	clientCfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientCfg.BaseURL = opts.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		opts:   opts,
		logger: opts.Logger.With(zap.String("component", "openai")),
	}, nil
}

// CompleteJSON sends the system and user messages with a json_object response format
func (p *OpenAIProvider) CompleteJSON(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.opts.Model,
		Messages:    messages,
		MaxTokens:   p.opts.MaxTokens,
		Temperature: p.opts.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	text := resp.Choices[0].Message.Content
	logCompletion(p.logger, p.Name(), p.opts.Model, text,
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))
	return text, nil
}

func (p *OpenAIProvider) Name() string {
	return providerOpenAI
}

func (p *OpenAIProvider) Model() string {
	return p.opts.Model
}

// Close is a no-op; the HTTP client holds no dedicated resources
func (p *OpenAIProvider) Close() error {
	return nil
}
