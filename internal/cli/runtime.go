package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/analyzer"
	"github.com/Kavirubc/gh-scout/internal/cache"
	"github.com/Kavirubc/gh-scout/internal/config"
	"github.com/Kavirubc/gh-scout/internal/github"
	"github.com/Kavirubc/gh-scout/internal/llm"
	"github.com/Kavirubc/gh-scout/internal/logger"
	"github.com/Kavirubc/gh-scout/internal/pipeline"
)

// runtime owns the long-lived collaborators behind a Processor
type runtime struct {
	processor *pipeline.Processor
	provider  llm.Provider
	sweeper   *cache.Sweeper
	logger    *zap.Logger
}

// newRuntime constructs every dependency once. Credential or provider
// problems surface here rather than per delivery.
func newRuntime(cfg *config.Config, log *zap.Logger) (*runtime, error) {
	appID, err := cfg.AppIDInt()
	if err != nil {
		return nil, err
	}
	key, err := cfg.PrivateKeyPEM()
	if err != nil {
		return nil, err
	}

	app, err := github.NewAppAuth(appID, key, github.Options{
		Host:    cfg.GitHub.Host,
		Timeout: cfg.GitHubTimeout(),
		Limits: github.ProfileLimits{
			MaxEvents:    cfg.Profile.MaxEvents,
			MaxRepos:     cfg.Profile.MaxRepos,
			MaxDiffs:     cfg.Profile.MaxDiffs,
			MaxDiffChars: cfg.Profile.MaxDiffChars,
		},
		Logger: log.Named("github"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App auth: %w", err)
	}

	provider, err := llm.NewProvider(cfg.LLM, log.Named("llm"))
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	classifier := analyzer.New(provider, analyzer.Options{
		Timeout:        cfg.LLMTimeout(),
		MaxReadmeChars: cfg.Profile.MaxReadmeChars,
		Logger:         log.Named("analyzer"),
	})

	profiles, err := cache.New(cfg.Cache.Capacity, cfg.CacheTTL())
	if err != nil {
		_ = provider.Close()
		return nil, fmt.Errorf("failed to create profile cache: %w", err)
	}

	sweeper, err := cache.NewSweeper(profiles, cfg.Cache.SweepSchedule, log.Named("cache"))
	if err != nil {
		_ = provider.Close()
		return nil, fmt.Errorf("failed to create cache sweeper: %w", err)
	}

	proc := pipeline.NewProcessor(cfg, pipeline.Deps{
		Auth:       pipeline.NewAppAuthenticator(app),
		Classifier: classifier,
		Store:      profiles,
		Logger:     log.Named("pipeline"),
	}, cfg.Server.DryRun)

	log.Info("runtime ready",
		zap.String(logger.FieldProvider, provider.Name()),
		zap.String(logger.FieldModel, provider.Model()),
		zap.Int("cache_capacity", cfg.Cache.Capacity),
		zap.Duration("cache_ttl", cfg.CacheTTL()),
		zap.Bool("dry_run", cfg.Server.DryRun),
	)

	return &runtime{
		processor: proc,
		provider:  provider,
		sweeper:   sweeper,
		logger:    log,
	}, nil
}

// Close stops the sweeper and releases the provider
func (r *runtime) Close() {
	<-r.sweeper.Stop().Done()
	if err := r.provider.Close(); err != nil {
		r.logger.Warn("failed to close LLM provider", zap.Error(err))
	}
}

// startSweeper runs periodic cache expiry until Close
func (r *runtime) startSweeper() {
	r.sweeper.Start()
}

