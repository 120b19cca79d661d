// Package core holds the types shared by the pipeline runner and its steps.
package core

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/config"
	"github.com/Kavirubc/gh-scout/internal/github"
	"github.com/Kavirubc/gh-scout/internal/scoring"
	"github.com/Kavirubc/gh-scout/pkg/models"
)

// ErrSkipPipeline indicates that the rest of the pipeline should be skipped purely for logic reasons
// (e.g. bot comment, repo disabled). It is not an error condition.
var ErrSkipPipeline = errors.New("skip pipeline")

var (
	// ErrAuthentication marks a failed installation token exchange
	ErrAuthentication = errors.New("authentication failed")
	// ErrUpstreamData marks a failed GitHub read or write, or a malformed payload
	ErrUpstreamData = errors.New("upstream data error")
)

// GitHubClient is the installation-scoped GitHub surface the steps use
type GitHubClient interface {
	GetIssue(ctx context.Context, org, repo string, number int) (*models.Issue, error)
	GetRepository(ctx context.Context, org, repo string) (*models.Repository, error)
	FetchUserProfile(ctx context.Context, username, org, repo string) (*models.ProfileData, error)
	PostComment(ctx context.Context, org, repo string, number int, body string) error
}

// Authenticator yields a GitHubClient for an App installation
type Authenticator interface {
	ClientForInstallation(ctx context.Context, installationID int64) (GitHubClient, error)
}

// Classifier produces the scoring signals. Implementations absorb their own
// failures and return default signals.
type Classifier interface {
	ExtractTechStack(ctx context.Context, issue *models.Issue, repo *models.Repository) models.TechStackSignal
	AnalyzeUser(ctx context.Context, profile *models.ProfileData, comment string) models.UserSkillSignal
	AnalyzeContributions(ctx context.Context, diffs []string) models.ContributionQuality
	DetectIntent(ctx context.Context, comment string) bool
}

// Result is the outcome of one webhook delivery
type Result struct {
	DeliveryID    string          `json:"delivery_id,omitempty"`
	Repo          string          `json:"repo,omitempty"`
	IssueNumber   int             `json:"issue_number,omitempty"`
	Commenter     string          `json:"commenter,omitempty"`
	Skipped       bool            `json:"skipped,omitempty"`
	SkipReason    string          `json:"skip_reason,omitempty"`
	CacheHit      bool            `json:"cache_hit,omitempty"`
	Report        *scoring.Report `json:"report,omitempty"`
	CommentPosted bool            `json:"comment_posted,omitempty"`
	DryRun        bool            `json:"dry_run,omitempty"`
	Error         string          `json:"error,omitempty"`
	ErrorReported bool            `json:"error_reported,omitempty"`
}

// Context carries state through the pipeline steps.
// It follows "Effective Go" by using direct field access for simplicity within the package.
type Context struct {
	// Base Inputs
	Ctx    context.Context
	Event  *github.Event
	Config *config.Config
	Logger *zap.Logger
	DryRun bool

	// Org and Repo are resolved from the event by the gatekeeper
	Org  string
	Repo string

	// GitHub is the installation client, set once authenticated
	GitHub GitHubClient

	// Profile and Contributions come from the cache or a fresh fetch
	Profile       *models.ProfileData
	Contributions models.ContributionQuality

	// Issue context for the tech stack classifier
	Issue      *models.Issue
	Repository *models.Repository

	// Per-comment classifier signals
	TechStack  models.TechStackSignal
	UserSignal models.UserSkillSignal

	// CommentBody holds the rendered report
	CommentBody string

	// Result accumulates the final output structure
	Result *Result
}

// Step defines a single unit of work in the pipeline.
type Step interface {
	// Name returns the unique identifier for this step (used in logs)
	Name() string
	// Run executes the step logic.
	// Returning ErrSkipPipeline gracefully stops execution.
	// Returning any other error halts execution and is treated as a failure.
	Run(ctx *Context) error
}

// Skip records why the delivery is ignored and returns ErrSkipPipeline
func (c *Context) Skip(reason string) error {
	c.Result.Skipped = true
	c.Result.SkipReason = reason
	return ErrSkipPipeline
}
