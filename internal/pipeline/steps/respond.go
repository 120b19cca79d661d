package steps

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/logger"
	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
)

// Responder posts the rendered report on the issue
type Responder struct{}

// NewResponder creates a new responder step
func NewResponder() *Responder {
	return &Responder{}
}

func (s *Responder) Name() string {
	return "respond"
}

func (s *Responder) Run(ctx *core.Context) error {
	if ctx.DryRun {
		ctx.Result.DryRun = true
		ctx.Logger.Info("[DRY RUN] would post report",
			zap.String("comment", logger.TruncateForLog(ctx.CommentBody, 500)))
		return nil
	}

	if err := ctx.GitHub.PostComment(ctx.Ctx, ctx.Org, ctx.Repo, ctx.Event.IssueNumber(), ctx.CommentBody); err != nil {
		return fmt.Errorf("%w: %w", core.ErrUpstreamData, err)
	}

	ctx.Result.CommentPosted = true
	ctx.Logger.Info("report posted")
	return nil
}
