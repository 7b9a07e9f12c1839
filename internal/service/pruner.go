package service

import (
	"context"
	"fmt"
	"time"

	"bookstore/internal/logger"
	"bookstore/internal/repository"

	"github.com/robfig/cron/v3"
)

// PrunerService periodically removes activity entries older than the retention window.
// Stop via context cancellation in main() for graceful shutdown.
type PrunerService struct {
	activityRepo repository.ActivityRepo
	retention    time.Duration
	log          *logger.Logger
	cron         *cron.Cron
	now          func() time.Time
}

func NewPrunerService(activityRepo repository.ActivityRepo, retention time.Duration, log *logger.Logger) *PrunerService {
	return &PrunerService{
		activityRepo: activityRepo,
		retention:    retention,
		log:          log,
		cron:         cron.New(),
		now:          time.Now,
	}
}

// PruneOnce deletes everything older than now minus retention and reports how many entries went.
func (s *PrunerService) PruneOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.retention)
	n, err := s.activityRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Start schedules pruning with a cron expression (e.g. "@hourly" or "0 3 * * *") and returns immediately.
// The scheduler stops once ctx is cancelled.
func (s *PrunerService) Start(ctx context.Context, schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule activity pruning %q: %w", schedule, err)
	}
	s.cron.Start()

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
	return nil
}

func (s *PrunerService) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := s.PruneOnce(ctx)
	if s.log == nil {
		return
	}
	if err != nil {
		s.log.Errorw("prune activity failed", "err", err)
		return
	}
	if n > 0 {
		s.log.Infow("pruned activity", "removed", n, "retention", s.retention.String())
	}
}
