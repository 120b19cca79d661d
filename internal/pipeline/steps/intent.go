package steps

import (
	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
)

// IntentFilter skips comments the classifier judges as not offering to work on
// the issue. It only runs when llm.intent_filter is enabled.
type IntentFilter struct {
	classifier core.Classifier
}

// NewIntentFilter creates a new intent filter step
func NewIntentFilter(classifier core.Classifier) *IntentFilter {
	return &IntentFilter{classifier: classifier}
}

func (s *IntentFilter) Name() string {
	return "intent_filter"
}

func (s *IntentFilter) Run(ctx *core.Context) error {
	if !ctx.Config.LLM.IntentFilter {
		return nil
	}

	if !s.classifier.DetectIntent(ctx.Ctx, ctx.Event.CommentBody()) {
		return ctx.Skip("comment does not offer to work on the issue")
	}
	return nil
}
