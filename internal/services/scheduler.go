package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ccis-go/internal/repository"
)

// Scheduler sweeps for active sessions that have outlived their maximum
// duration and terminates them.
type Scheduler struct {
	log      *zap.Logger
	notifier *Notifier
	interval time.Duration
}

func NewScheduler(log *zap.Logger, notifier *Notifier, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		log:      log,
		notifier: notifier,
		interval: interval,
	}
}

// Start runs the scheduler in a goroutine.
func (s *Scheduler) Start() {
	s.log.Info("Starting session expiry scheduler", zap.Duration("interval", s.interval))
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			<-ticker.C
			s.runExpirySweep()
		}
	}()
}

func (s *Scheduler) runExpirySweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ids, err := repository.ListExpiredActive(ctx, time.Now())
	if err != nil {
		s.log.Error("Failed to list expired sessions", zap.Error(err))
		return
	}

	for _, id := range ids {
		s.terminateExpired(ctx, id)
	}
}

func (s *Scheduler) terminateExpired(ctx context.Context, id uuid.UUID) {
	sess, version, err := repository.GetSession(ctx, id)
	if err != nil {
		s.log.Error("Failed to load expired session", zap.Error(err), zap.String("sessionID", id.String()))
		return
	}

	if err := sess.Terminate("session exceeded maximum duration"); err != nil {
		// A handler may have completed or terminated it since the listing.
		s.log.Debug("Expired session no longer terminable", zap.Error(err), zap.String("sessionID", id.String()))
		return
	}

	if err := repository.UpdateSession(ctx, sess, version); err != nil {
		if err == repository.ErrStaleSession {
			// Lost the race with a concurrent request; next sweep retries.
			return
		}
		s.log.Error("Failed to persist terminated session", zap.Error(err), zap.String("sessionID", id.String()))
		return
	}

	s.notifier.Publish(sess.DrainEvents())
	s.log.Info("Terminated expired session", zap.String("sessionID", id.String()))
}
