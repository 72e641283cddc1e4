package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Scheduler struct {
	cron    *cron.Cron
	poller  *Poller
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewScheduler registers one poll per cron tick ("@every 1m" by default).
// Overlapping ticks are skipped while a poll is still running.
func NewScheduler(spec string, poller *Poller, log *logrus.Logger) (*Scheduler, error) {
	cronLog := cron.PrintfLogger(log)

	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		)),
		poller:  poller,
		log:     log.WithField("component", "reminder"),
		timeout: 50 * time.Second,
	}

	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.poller.Poll(ctx)
	if err != nil {
		s.log.WithError(err).Warn("reminder poll failed")
		return
	}
	if n > 0 {
		s.log.WithField("count", n).Info("reminders processed")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("reminder scheduler started")
}

// Stop waits for a running poll to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
