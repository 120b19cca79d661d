package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/config"
	"github.com/Kavirubc/gh-scout/internal/github"
	"github.com/Kavirubc/gh-scout/internal/logger"
	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
	"github.com/Kavirubc/gh-scout/internal/pipeline/steps"
)

const errorCommentPrefix = "🤖 Oops! An internal error occurred while trying to analyze the request."

// ErrorComment is the apology posted on the issue when a delivery fails
func ErrorComment(err error) string {
	return fmt.Sprintf("%s %v", errorCommentPrefix, err)
}

// Deps are the collaborators a Processor is built from
type Deps struct {
	Auth       core.Authenticator
	Classifier core.Classifier
	Store      steps.ProfileStore
	Logger     *zap.Logger
}

// Processor runs issue_comment deliveries through the scoring pipeline
type Processor struct {
	cfg    *config.Config
	auth   core.Authenticator
	logger *zap.Logger
	dryRun bool

	// pipeline is the sequence of steps to execute per delivery
	pipeline []core.Step
}

// NewProcessor creates a processor running the default pipeline
func NewProcessor(cfg *config.Config, deps Deps, dryRun bool) *Processor {
	builder := NewBuilder(deps.Auth, deps.Classifier, deps.Store)

	return &Processor{
		cfg:      cfg,
		auth:     deps.Auth,
		logger:   logger.OrNop(deps.Logger),
		dryRun:   dryRun,
		pipeline: builder.BuildDefault(),
	}
}

// Process handles one delivery. Ignored deliveries return a skipped result and
// no error. Any other failure is reported on the issue on a best-effort basis
// and returned.
func (p *Processor) Process(ctx context.Context, event *github.Event, deliveryID string) (*core.Result, error) {
	result := &core.Result{
		DeliveryID:  deliveryID,
		IssueNumber: event.IssueNumber(),
		Commenter:   event.Commenter(),
	}
	if event.Repo != nil {
		result.Repo = event.Repo.FullName
	}

	log := p.logger.With(
		zap.String(logger.FieldDelivery, deliveryID),
		zap.String(logger.FieldRepo, result.Repo),
		zap.Int(logger.FieldIssue, result.IssueNumber),
		zap.String(logger.FieldCommenter, result.Commenter),
	)

	pCtx := &core.Context{
		Ctx:    ctx,
		Event:  event,
		Config: p.cfg,
		Logger: log,
		DryRun: p.dryRun,
		Result: result,
	}

	for _, step := range p.pipeline {
		pCtx.Logger = log.With(zap.String(logger.FieldStep, step.Name()))

		if err := step.Run(pCtx); err != nil {
			if errors.Is(err, core.ErrSkipPipeline) {
				// Pipeline stopped gracefully (e.g. bot comment, disabled repo)
				log.Info("delivery ignored", zap.String("reason", result.SkipReason))
				return result, nil
			}

			err = fmt.Errorf("step %s failed: %w", step.Name(), err)
			result.Error = err.Error()

			// An incomplete payload is rejected without touching the issue.
			if errors.Is(err, github.ErrIncompleteEvent) {
				log.Warn("delivery rejected", zap.Error(err))
				return result, err
			}

			log.Error("delivery failed", zap.Error(err))
			result.ErrorReported = p.reportError(pCtx, err)
			return result, err
		}
	}

	log.Info("delivery processed",
		zap.Bool("cache_hit", result.CacheHit),
		zap.Bool("comment_posted", result.CommentPosted))
	return result, nil
}

// reportError posts the apology comment, re-authenticating if the failure
// happened before a client existed. Failures here are only logged.
func (p *Processor) reportError(pCtx *core.Context, cause error) bool {
	log := pCtx.Logger.With(zap.String(logger.FieldStep, "error_report"))
	event := pCtx.Event

	org, repo, err := event.RepoParts()
	if err != nil || event.IssueNumber() == 0 || event.InstallationID() == 0 {
		log.Warn("cannot report error: event lacks repository, issue or installation")
		return false
	}

	if p.dryRun {
		log.Info("[DRY RUN] would post error comment", zap.String("comment", ErrorComment(cause)))
		return false
	}

	client := pCtx.GitHub
	if client == nil {
		client, err = p.auth.ClientForInstallation(pCtx.Ctx, event.InstallationID())
		if err != nil {
			log.Error("failed to re-authenticate for error comment", zap.Error(err))
			return false
		}
	}

	if err := client.PostComment(pCtx.Ctx, org, repo, event.IssueNumber(), ErrorComment(cause)); err != nil {
		log.Error("failed to post error comment", zap.Error(err))
		return false
	}

	return true
}
