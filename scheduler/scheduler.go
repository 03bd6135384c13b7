// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/techagentng/ain/db"
	"go.uber.org/zap"
)

// PurgeSpec runs the credential purge at the top of every hour.
const PurgeSpec = "@hourly"

type Scheduler struct {
	cron   *cron.Cron
	users  db.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(users db.UserRepository, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the jobs and starts the cron loop in its own goroutine.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.purge); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("purge_spec", spec))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.PurgeExpired(ctx); err != nil {
		s.logger.Error("purge expired credentials", zap.Error(err))
	}
}

// PurgeExpired clears expired OTP codes and refresh tokens once.
func (s *Scheduler) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.users.PurgeExpiredCredentials(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged expired credentials", zap.Int64("count", n))
	}
	return n, nil
}
