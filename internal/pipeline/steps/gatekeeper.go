package steps

import (
	"fmt"

	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
)

// Gatekeeper drops deliveries that must have no side effects: events other than
// a newly created issue comment, bot comments, and repositories outside the
// configured allow-list.
type Gatekeeper struct{}

// NewGatekeeper creates a new gatekeeper step
func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

func (s *Gatekeeper) Run(ctx *core.Context) error {
	if reason := ctx.Event.IgnoreReason(); reason != "" {
		return ctx.Skip(reason)
	}

	if err := ctx.Event.Validate(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrUpstreamData, err)
	}

	org, repo, err := ctx.Event.RepoParts()
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrUpstreamData, err)
	}
	ctx.Org, ctx.Repo = org, repo

	if !ctx.Config.RepoAllowed(org, repo) {
		return ctx.Skip("repository not enabled")
	}

	return nil
}
