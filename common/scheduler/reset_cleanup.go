package scheduler

import (
	"context"
	"time"

	"github.com/mediashare-services/common/logger"
	"github.com/mediashare-services/common/store"
)

// ResetRequestCleanupScheduler periodically removes stale password reset
// requests: consumed requests whose last change is older than the retention
// window, and unconsumed requests whose OTP expired before the window.
type ResetRequestCleanupScheduler struct {
	store     store.Store
	interval  time.Duration
	retention time.Duration
	stopChan  chan struct{}
	log       *logger.Logger
}

// NewResetRequestCleanupScheduler creates a cleanup scheduler.
func NewResetRequestCleanupScheduler(st store.Store, interval, retention time.Duration) *ResetRequestCleanupScheduler {
	return &ResetRequestCleanupScheduler{
		store:     st,
		interval:  interval,
		retention: retention,
		stopChan:  make(chan struct{}),
		log:       logger.With("component", "reset-cleanup"),
	}
}

// Start runs one cleanup immediately, then keeps running on the configured
// interval until Stop is called.
func (s *ResetRequestCleanupScheduler) Start() {
	s.log.Info("reset request cleanup started, interval=%s retention=%s", s.interval, s.retention)

	s.cleanup()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.cleanup()
			case <-s.stopChan:
				s.log.Info("reset request cleanup stopped")
				return
			}
		}
	}()
}

// Stop terminates the scheduler loop.
func (s *ResetRequestCleanupScheduler) Stop() {
	close(s.stopChan)
}

func (s *ResetRequestCleanupScheduler) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)

	consumed, err := s.store.Delete(ctx, store.CollectionPasswordResets, store.Filter{
		"password_changed":     true,
		"last_password_change": map[string]interface{}{"$lt": cutoff},
	})
	if err != nil {
		s.log.WithError(err).Error("failed to delete consumed reset requests")
	}

	expired, err := s.store.Delete(ctx, store.CollectionPasswordResets, store.Filter{
		"password_changed": false,
		"otp_expiry":       map[string]interface{}{"$lt": cutoff},
	})
	if err != nil {
		s.log.WithError(err).Error("failed to delete expired reset requests")
	}

	if consumed+expired > 0 {
		s.log.Info("reset request cleanup removed %d consumed, %d expired", consumed, expired)
	}
}
