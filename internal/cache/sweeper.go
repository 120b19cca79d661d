package cache

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSweepSchedule runs the expiry sweep hourly
const DefaultSweepSchedule = "@every 1h"

// Sweeper periodically purges expired cache entries so memory does not hold
// profiles nobody asks for again.
type Sweeper struct {
	cron   *cron.Cron
	cache  *ProfileCache
	logger *zap.Logger
}

// NewSweeper schedules Purge on cache using a cron schedule such as "@every 1h"
func NewSweeper(c *ProfileCache, schedule string, logger *zap.Logger) (*Sweeper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	s := &Sweeper{
		cron:   cron.New(),
		cache:  c,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start runs the schedule in the background
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule. The returned context is done once a running sweep finishes.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Sweeper) sweep() {
	removed := s.cache.Purge()
	s.logger.Debug("profile cache swept",
		zap.Int("removed", removed),
		zap.Int("remaining", s.cache.Len()))
}
