// Package analyzer wraps the LLM provider with the four judgements gh-scout
// needs: the tech stack an issue requires, the skills and explanation quality
// of a commenter, the complexity of their past work, and whether a comment
// expresses intent to work on the issue.
//
// None of the methods return errors. Provider and parse failures are logged
// and replaced with fixed default signals so scoring can always proceed.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/llm"
	"github.com/Kavirubc/gh-scout/internal/logger"
)

const (
	DefaultTimeout        = 60 * time.Second
	DefaultMaxReadmeChars = 2000

	logPreviewChars = 300
)

// Options tunes an Analyzer
type Options struct {
	Timeout        time.Duration
	MaxReadmeChars int
	Logger         *zap.Logger
}

// Analyzer turns issue and profile text into scoring signals
type Analyzer struct {
	llm       llm.Provider
	timeout   time.Duration
	maxReadme int
	logger    *zap.Logger
}

// New creates an analyzer backed by provider
func New(provider llm.Provider, opts Options) *Analyzer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxReadmeChars <= 0 {
		opts.MaxReadmeChars = DefaultMaxReadmeChars
	}

	l := logger.OrNop(opts.Logger).With(
		zap.String(logger.FieldProvider, provider.Name()),
		zap.String(logger.FieldModel, provider.Model()),
	)

	return &Analyzer{
		llm:       provider,
		timeout:   opts.Timeout,
		maxReadme: opts.MaxReadmeChars,
		logger:    l,
	}
}

// ask runs one JSON-mode completion and decodes it into out
func (a *Analyzer) ask(ctx context.Context, task, system, prompt string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.logger.Debug("classifier request",
		zap.String("task", task),
		zap.String("prompt", logger.TruncateForLog(prompt, logPreviewChars)))

	response, err := a.llm.CompleteJSON(ctx, system, prompt)
	if err != nil {
		return fmt.Errorf("%s completion failed: %w", task, err)
	}

	a.logger.Debug("classifier response",
		zap.String("task", task),
		zap.String("response", logger.TruncateForLog(response, logPreviewChars)))

	return decodeResponse(response, out)
}

// decodeResponse parses a model reply into out. Values are decoded weakly so
// "7" and 7 are both accepted for numeric fields.
func decodeResponse(response string, out any) error {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var raw map[string]any
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		return fmt.Errorf("failed to parse LLM response: %w", err)
	}

	if err := mapstructure.WeakDecode(raw, out); err != nil {
		return fmt.Errorf("failed to decode LLM response: %w", err)
	}

	return nil
}

// cleanTokens trims entries and drops empty ones
func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// clampSignal bounds a 0-10 model score
func clampSignal(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// truncateText keeps at most maxLen characters, never splitting a multi-byte one
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}
