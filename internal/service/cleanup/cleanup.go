package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nkiryanov/memoria/internal/logger"
	"github.com/nkiryanov/memoria/internal/repository"
)

const DefaultSchedule = "@daily"

// Max time one prune run may take
const pruneTimeout = time.Minute

// Removes blacklist entries of tokens that expired naturally
// Such tokens fail signature check anyway, so entries are not needed anymore
type CleanupService struct {
	revoked repository.RevokedTokenRepo
	logger  logger.Logger
	now     func() time.Time
}

func NewService(revoked repository.RevokedTokenRepo, l logger.Logger) *CleanupService {
	return &CleanupService{
		revoked: revoked,
		logger:  l,
		now:     time.Now,
	}
}

func (s *CleanupService) PruneRevoked(ctx context.Context) (int64, error) {
	deleted, err := s.revoked.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("can't prune revoked tokens. Err: %w", err)
	}
	return deleted, nil
}

// Register prune job on the scheduler
// Schedule accepts standard cron spec or descriptors like @daily, @every 1h
func (s *CleanupService) Schedule(c *cron.Cron, schedule string) (cron.EntryID, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	id, err := c.AddFunc(schedule, s.run)
	if err != nil {
		return 0, fmt.Errorf("can't schedule revoked tokens prune with %q. Err: %w", schedule, err)
	}
	return id, nil
}

func (s *CleanupService) run() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	deleted, err := s.PruneRevoked(ctx)
	if err != nil {
		s.logger.Error("scheduled revoked tokens prune failed", "error", err)
		return
	}
	s.logger.Info("revoked tokens pruned", "deleted", deleted)
}
