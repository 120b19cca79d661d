package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/config"
	"github.com/Kavirubc/gh-scout/internal/logger"
)

const (
	defaultMaxTokens    = 1024
	previewLimit        = 300
	providerOpenAI      = "openai"
	providerGemini      = "gemini"
	mimeApplicationJSON = "application/json"
)

// Provider is a chat model asked for a single JSON object per call
type Provider interface {
	// CompleteJSON returns the raw model text. Callers still validate it;
	// JSON mode is a request, not a guarantee.
	CompleteJSON(ctx context.Context, system, prompt string) (string, error)
	Name() string
	Model() string
	Close() error
}

// Options configures a provider
type Options struct {
	APIKey string
	Model  string
	// BaseURL overrides the OpenAI endpoint (compatible gateways, tests)
	BaseURL     string
	Temperature float32
	MaxTokens   int
	Logger      *zap.Logger
}

func (o Options) withDefaults(model string) Options {
	if o.Model == "" {
		o.Model = model
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	o.Logger = logger.OrNop(o.Logger)
	return o
}

// NewProvider creates the provider named by the llm config section
func NewProvider(cfg config.LLMConfig, log *zap.Logger) (Provider, error) {
	opts := Options{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Logger:  log,
	}

	switch cfg.Provider {
	case providerGemini:
		return NewGeminiProvider(opts)
	case providerOpenAI, "":
		return NewOpenAIProvider(opts)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

func logCompletion(log *zap.Logger, provider, model, text string, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String(logger.FieldProvider, provider),
		zap.String(logger.FieldModel, model),
		zap.String("response", logger.TruncateForLog(text, previewLimit)),
	}, fields...)
	log.Debug("llm completion", fields...)
}
