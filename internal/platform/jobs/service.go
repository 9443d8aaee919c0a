package jobs

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const JobSessionPrune = "session_prune"

// SessionPruner deletes sessions that expired or were revoked before the cutoff.
type SessionPruner interface {
	PruneSessions(ctx context.Context, before time.Time) (int64, error)
}

type Service struct {
	pruner  SessionPruner
	logger  *zap.Logger
	cron    *cron.Cron
	timeout time.Duration
	now     func() time.Time
}

func New(pruner SessionPruner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		pruner:  pruner,
		logger:  logger,
		cron:    cron.New(),
		timeout: time.Minute,
		now:     time.Now,
	}
}

// Start registers the prune job on schedule and starts the scheduler. The scheduler
// stops when ctx is cancelled.
func (s *Service) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.RunNow(ctx); err != nil {
			s.logger.Warn("job run failed", zap.String("jobType", JobSessionPrune), zap.Error(err))
		}
	})
	if err != nil {
		return errors.Wrapf(err, "schedule %s", JobSessionPrune)
	}
	s.cron.Start()
	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
	return nil
}

// RunNow prunes sessions immediately and returns how many rows were removed.
func (s *Service) RunNow(ctx context.Context) (int64, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := s.now()
	removed, err := s.pruner.PruneSessions(runCtx, started)
	if err != nil {
		return 0, errors.Wrap(err, "prune sessions")
	}
	s.logger.Info("job run completed",
		zap.String("jobType", JobSessionPrune),
		zap.Int64("removed", removed),
		zap.Duration("duration", s.now().Sub(started)),
	)
	return removed, nil
}
