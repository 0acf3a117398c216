package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mlviz/pkg/catalogue"
)

func TestNew(t *testing.T) {
	sess, err := New(nil, nil, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(sess.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", sess.ID, err)
	}
	if !sess.Set.Empty() || sess.Selection != "" {
		t.Error("new session should have no selection")
	}
	if sess.IsExpired() {
		t.Error("new session already expired")
	}
}

func TestSelectToggles(t *testing.T) {
	cat := catalogue.MustEmbedded()
	sess, _ := New(nil, nil, time.Hour)

	if got := sess.Select(cat, "rl"); got != "rl" || sess.Set.Method() == nil {
		t.Fatalf("Select(rl) = %q", got)
	}
	if got := sess.Select(cat, "rl"); got != "" || !sess.Set.Empty() {
		t.Errorf("reselecting should clear, got %q", got)
	}
	if got := sess.Select(cat, "nope"); got != "" || !sess.Set.Empty() {
		t.Errorf("unknown id should clear, got %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	sess, _ := New(nil, nil, time.Hour)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil || got != sess {
		t.Fatalf("Get = %v, %v", got, err)
	}

	if got, err := store.Get(ctx, "missing"); got != nil || err != nil {
		t.Errorf("Get(missing) = %v, %v; want nil, nil", got, err)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("session survived Delete")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	expired, _ := New(nil, nil, time.Hour)
	expired.ExpiresAt = time.Now().Add(-time.Second)
	live, _ := New(nil, nil, time.Hour)
	store.Set(ctx, expired)
	store.Set(ctx, live)

	if _, err := store.Get(ctx, expired.ID); err != ErrExpired {
		t.Errorf("Get(expired) error = %v, want ErrExpired", err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d after expired Get, want 1", store.Len())
	}

	live.ExpiresAt = time.Now().Add(-time.Second)
	store.Cleanup(ctx)
	if store.Len() != 0 {
		t.Errorf("Len() = %d after Cleanup, want 0", store.Len())
	}
}

func TestMemoryStoreSlidingTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	sess, _ := New(nil, nil, time.Minute)
	store.Set(ctx, sess)

	store.Get(ctx, sess.ID)
	if time.Until(sess.ExpiresAt) < 59*time.Minute {
		t.Errorf("Get did not extend expiry: %v left", time.Until(sess.ExpiresAt))
	}
}

func TestJanitorStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore(time.Hour)
	sess, _ := New(nil, nil, time.Hour)
	sess.ExpiresAt = time.Now().Add(-time.Second)
	store.Set(ctx, sess)

	done := make(chan struct{})
	go func() {
		Janitor(ctx, store, time.Millisecond)
		close(done)
	}()

	deadline := time.After(time.Second)
	for store.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("janitor did not evict the expired session")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}
