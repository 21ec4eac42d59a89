package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/mediashare-services/common/store"
)

func TestCleanupRemovesStaleRequests(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	stale := now.Add(-48 * time.Hour)

	// Consumed long ago - should be removed.
	st.Insert(ctx, store.CollectionPasswordResets, store.Document{
		"user_id":              "u1",
		"password_changed":     true,
		"last_password_change": stale,
	})
	// Expired and never consumed - should be removed.
	st.Insert(ctx, store.CollectionPasswordResets, store.Document{
		"user_id":          "u2",
		"password_changed": false,
		"otp_expiry":       stale,
	})
	// Still pending with a live OTP - must survive.
	st.Insert(ctx, store.CollectionPasswordResets, store.Document{
		"user_id":          "u3",
		"password_changed": false,
		"otp_expiry":       now.Add(time.Hour),
	})
	// Recently consumed - must survive until retention passes.
	st.Insert(ctx, store.CollectionPasswordResets, store.Document{
		"user_id":              "u4",
		"password_changed":     true,
		"last_password_change": now.Add(-time.Hour),
	})

	s := NewResetRequestCleanupScheduler(st, time.Hour, 24*time.Hour)
	s.cleanup()

	remaining, err := st.Get(ctx, store.CollectionPasswordResets, store.Filter{})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("got %d remaining requests, want 2", len(remaining))
	}

	survivors := map[string]bool{}
	for _, doc := range remaining {
		survivors[doc["user_id"].(string)] = true
	}
	if !survivors["u3"] || !survivors["u4"] {
		t.Errorf("survivors = %v, want u3 and u4", survivors)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	st := store.NewMemoryStore()
	s := NewResetRequestCleanupScheduler(st, 10*time.Millisecond, time.Hour)

	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Stop()
	// Give the goroutine a moment to observe the stop signal.
	time.Sleep(20 * time.Millisecond)
}
