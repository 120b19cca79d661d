package steps

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Kavirubc/gh-scout/internal/cache"
	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
)

// ProfileStore is the subset of cache.ProfileCache used by ProfileLoader
type ProfileStore interface {
	Get(username string) (cache.Entry, bool)
	Put(username string, e cache.Entry)
}

// ProfileLoader resolves the commenter's profile and contribution analysis,
// from cache when possible. Concurrent misses for the same username share a
// single fetch and classification.
type ProfileLoader struct {
	store      ProfileStore
	classifier core.Classifier
	group      *singleflight.Group
}

// NewProfileLoader creates a new profile step. The group must be shared by
// every pipeline built over the same store.
func NewProfileLoader(store ProfileStore, classifier core.Classifier, group *singleflight.Group) *ProfileLoader {
	if group == nil {
		group = &singleflight.Group{}
	}
	return &ProfileLoader{
		store:      store,
		classifier: classifier,
		group:      group,
	}
}

func (s *ProfileLoader) Name() string {
	return "profile"
}

func (s *ProfileLoader) Run(ctx *core.Context) error {
	username := ctx.Event.Commenter()

	if entry, ok := s.store.Get(username); ok {
		ctx.Logger.Info("profile cache hit")
		s.apply(ctx, username, entry, true)
		return nil
	}

	v, err, shared := s.group.Do(username, func() (interface{}, error) {
		// Another delivery may have stored it between our lookup and now.
		if entry, ok := s.store.Get(username); ok {
			return entry, nil
		}

		ctx.Logger.Info("profile cache miss, fetching")
		profile, err := ctx.GitHub.FetchUserProfile(ctx.Ctx, username, ctx.Org, ctx.Repo)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch profile for %s: %w", core.ErrUpstreamData, username, err)
		}

		entry := cache.Entry{
			UserData:             *profile,
			ContributionAnalysis: s.classifier.AnalyzeContributions(ctx.Ctx, profile.PRDiffs),
		}
		s.store.Put(username, entry)
		return entry, nil
	})
	if err != nil {
		return err
	}

	if shared {
		ctx.Logger.Debug("profile fetch shared with a concurrent delivery")
	}
	s.apply(ctx, username, v.(cache.Entry), false)
	return nil
}

// apply copies the entry into the context, stamping the username of this delivery
func (s *ProfileLoader) apply(ctx *core.Context, username string, entry cache.Entry, hit bool) {
	profile := entry.UserData
	profile.Username = username
	profile.RepoLanguages = append([]string(nil), profile.RepoLanguages...)
	profile.PRDiffs = append([]string(nil), profile.PRDiffs...)

	ctx.Profile = &profile
	ctx.Contributions = entry.ContributionAnalysis
	ctx.Result.CacheHit = hit

	ctx.Logger.Debug("profile resolved",
		zap.Int("repo_contributions", profile.RepoContributionCount),
		zap.Float64("average_complexity", entry.ContributionAnalysis.AverageComplexity))
}
