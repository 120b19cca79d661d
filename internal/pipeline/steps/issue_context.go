package steps

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
)

// IssueContext fetches the issue and repository the tech stack is inferred from
type IssueContext struct{}

// NewIssueContext creates a new issue context step
func NewIssueContext() *IssueContext {
	return &IssueContext{}
}

func (s *IssueContext) Name() string {
	return "issue_context"
}

func (s *IssueContext) Run(ctx *core.Context) error {
	issue, err := ctx.GitHub.GetIssue(ctx.Ctx, ctx.Org, ctx.Repo, ctx.Event.IssueNumber())
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrUpstreamData, err)
	}

	repo, err := ctx.GitHub.GetRepository(ctx.Ctx, ctx.Org, ctx.Repo)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrUpstreamData, err)
	}

	ctx.Issue = issue
	ctx.Repository = repo

	ctx.Logger.Debug("issue context fetched",
		zap.Strings("labels", issue.Labels),
		zap.String("language", repo.Language))
	return nil
}
