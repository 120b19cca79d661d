package steps

import (
	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
)

// Analysis runs the per-comment classifier calls
type Analysis struct {
	classifier core.Classifier
}

// NewAnalysis creates a new analysis step
func NewAnalysis(classifier core.Classifier) *Analysis {
	return &Analysis{classifier: classifier}
}

func (s *Analysis) Name() string {
	return "analysis"
}

func (s *Analysis) Run(ctx *core.Context) error {
	ctx.TechStack = s.classifier.ExtractTechStack(ctx.Ctx, ctx.Issue, ctx.Repository)
	ctx.UserSignal = s.classifier.AnalyzeUser(ctx.Ctx, ctx.Profile, ctx.Event.CommentBody())

	ctx.Logger.Debug("classified",
		zap.Strings("tech_stack", ctx.TechStack.TechStack),
		zap.Strings("user_skills", ctx.UserSignal.UserSkills),
		zap.Float64("explanation_quality", ctx.UserSignal.ExplanationQuality))
	return nil
}
