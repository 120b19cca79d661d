package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider answers through GenerateContent with a JSON response MIME type
type GeminiProvider struct {
	client *genai.Client
	opts   Options
	logger *zap.Logger
}

// NewGeminiProvider creates a Gemini provider
func NewGeminiProvider(opts Options) (*GeminiProvider, error) {
	if opts.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}
	opts = opts.withDefaults(DefaultGeminiModel)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		opts:   opts,
		logger: opts.Logger.With(zap.String("component", "gemini")),
	}, nil
}

// CompleteJSON generates content constrained to application/json
func (p *GeminiProvider) CompleteJSON(ctx context.Context, system, prompt string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		MaxOutputTokens:  genai.Ptr(int32(p.opts.MaxTokens)),
		Temperature:      genai.Ptr(p.opts.Temperature),
		ResponseMIMEType: mimeApplicationJSON,
	}
	if system != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := p.client.Models.GenerateContent(ctx, p.opts.Model, []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}, genCfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := candidateText(result)
	if text == "" {
		return "", errors.New("no content generated")
	}

	logCompletion(p.logger, p.Name(), p.opts.Model, text)
	return text, nil
}

// candidateText joins the text parts of the first candidate
func candidateText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func (p *GeminiProvider) Name() string {
	return providerGemini
}

func (p *GeminiProvider) Model() string {
	return p.opts.Model
}

func (p *GeminiProvider) Close() error {
	return nil
}
