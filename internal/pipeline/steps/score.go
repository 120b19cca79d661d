package steps

import (
	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
	"github.com/Kavirubc/gh-scout/internal/scoring"
)

// Score computes the report and renders the comment body
type Score struct{}

// NewScore creates a new scoring step
func NewScore() *Score {
	return &Score{}
}

func (s *Score) Name() string {
	return "score"
}

func (s *Score) Run(ctx *core.Context) error {
	report := scoring.Calculate(scoring.Input{
		TechStack:     ctx.TechStack,
		User:          ctx.UserSignal,
		Profile:       *ctx.Profile,
		Contributions: ctx.Contributions,
	})

	ctx.Result.Report = report
	ctx.CommentBody = scoring.Render(report)

	ctx.Logger.Info("commenter scored",
		zap.Float64("total", report.Total),
		zap.String("tier", string(report.Tier)))
	return nil
}
