package pipeline

import (
	"golang.org/x/sync/singleflight"

	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
	"github.com/Kavirubc/gh-scout/internal/pipeline/steps"
)

// Builder constructs a pipeline of steps.
type Builder struct {
	auth       core.Authenticator
	classifier core.Classifier
	store      steps.ProfileStore
	group      *singleflight.Group
}

// NewBuilder creates a new pipeline builder
func NewBuilder(auth core.Authenticator, classifier core.Classifier, store steps.ProfileStore) *Builder {
	return &Builder{
		auth:       auth,
		classifier: classifier,
		store:      store,
		group:      &singleflight.Group{},
	}
}

// BuildDefault creates the standard pipeline
func (b *Builder) BuildDefault() []core.Step {
	return []core.Step{
		steps.NewGatekeeper(),
		steps.NewIntentFilter(b.classifier),
		steps.NewAuthenticator(b.auth),
		steps.NewProfileLoader(b.store, b.classifier, b.group),
		steps.NewIssueContext(),
		steps.NewAnalysis(b.classifier),
		steps.NewScore(),
		steps.NewResponder(),
	}
}
