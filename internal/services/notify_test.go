package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"locator-backend/internal/models"
	"locator-backend/internal/push"
	"locator-backend/internal/repository"
)

type sentPush struct {
	token string
	cmd   push.Command
}

// fakeSender records dispatches and can be told to fail or block
type fakeSender struct {
	mu    sync.Mutex
	calls []sentPush
	err   error
	block bool
	sent  chan struct{}
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(chan struct{}, 16)}
}

func (f *fakeSender) Send(ctx context.Context, token string, cmd push.Command) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	f.calls = append(f.calls, sentPush{token: token, cmd: cmd})
	f.mu.Unlock()
	f.sent <- struct{}{}
	return f.err
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestNotifyServiceRefreshDispatches(t *testing.T) {
	store := repository.NewMemoryRepository()
	sender := newFakeSender()
	svc := NewNotifyService(store, sender, time.Second, time.Minute)
	ctx := context.Background()

	newTestUser(t, store, "u1", "Dana")
	token := "fcm-token-1"
	if _, err := store.UpdateToken(ctx, "u1", &token); err != nil {
		t.Fatalf("UpdateToken failed: %v", err)
	}

	if err := svc.RequestLocationRefresh(ctx, "u1"); err != nil {
		t.Fatalf("RequestLocationRefresh failed: %v", err)
	}

	if sender.callCount() != 1 {
		t.Fatalf("got %d dispatches, want 1", sender.callCount())
	}
	call := sender.calls[0]
	if call.token != "fcm-token-1" {
		t.Errorf("dispatched to token %q, want fcm-token-1", call.token)
	}
	if call.cmd.Title != "update_location" {
		t.Errorf("dispatched command %q, want update_location", call.cmd.Title)
	}
	if call.cmd.ID == "" {
		t.Error("dispatched command has no request id")
	}
}

func TestNotifyServiceRefreshWithoutToken(t *testing.T) {
	store := repository.NewMemoryRepository()
	sender := newFakeSender()
	svc := NewNotifyService(store, sender, time.Second, time.Minute)

	newTestUser(t, store, "u1", "Dana")

	err := svc.RequestLocationRefresh(context.Background(), "u1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if sender.callCount() != 0 {
		t.Errorf("dispatch happened despite missing token: %d calls", sender.callCount())
	}
}

func TestNotifyServiceRefreshUnknownUser(t *testing.T) {
	sender := newFakeSender()
	svc := NewNotifyService(repository.NewMemoryRepository(), sender, time.Second, time.Minute)

	err := svc.RequestLocationRefresh(context.Background(), "missing")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if sender.callCount() != 0 {
		t.Errorf("dispatch happened for unknown user: %d calls", sender.callCount())
	}
}

func TestNotifyServiceTransportFailure(t *testing.T) {
	store := repository.NewMemoryRepository()
	sender := newFakeSender()
	sender.err = errors.New("connection refused")
	svc := NewNotifyService(store, sender, time.Second, time.Minute)
	ctx := context.Background()

	newTestUser(t, store, "u1", "Dana")
	token := "fcm-token-1"
	if _, err := store.UpdateToken(ctx, "u1", &token); err != nil {
		t.Fatalf("UpdateToken failed: %v", err)
	}

	err := svc.RequestLocationRefresh(ctx, "u1")
	if !errors.Is(err, models.ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
}

func TestNotifyServiceBoundedTimeout(t *testing.T) {
	store := repository.NewMemoryRepository()
	sender := newFakeSender()
	sender.block = true
	svc := NewNotifyService(store, sender, 50*time.Millisecond, time.Minute)
	ctx := context.Background()

	newTestUser(t, store, "u1", "Dana")
	token := "fcm-token-1"
	if _, err := store.UpdateToken(ctx, "u1", &token); err != nil {
		t.Fatalf("UpdateToken failed: %v", err)
	}

	start := time.Now()
	err := svc.RequestLocationRefresh(ctx, "u1")
	elapsed := time.Since(start)

	if !errors.Is(err, models.ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
	if elapsed > time.Second {
		t.Errorf("dispatch blocked the caller for %v", elapsed)
	}
}

func TestNotifyServiceRefreshIfStale(t *testing.T) {
	store := repository.NewMemoryRepository()
	sender := newFakeSender()
	svc := NewNotifyService(store, sender, time.Second, time.Minute)
	ctx := context.Background()

	newTestUser(t, store, "u1", "Dana")
	token := "fcm-token-1"
	if _, err := store.UpdateToken(ctx, "u1", &token); err != nil {
		t.Fatalf("UpdateToken failed: %v", err)
	}

	// No location on record counts as stale
	user, _ := store.GetByID(ctx, "u1")
	svc.RefreshIfStale(user)
	select {
	case <-sender.sent:
	case <-time.After(time.Second):
		t.Fatal("no dispatch for a user with no location on record")
	}

	// A fresh location does not trigger a dispatch
	if _, err := store.UpdateLocation(ctx, "u1", 1, 1, time.Now()); err != nil {
		t.Fatalf("UpdateLocation failed: %v", err)
	}
	user, _ = store.GetByID(ctx, "u1")
	svc.RefreshIfStale(user)
	select {
	case <-sender.sent:
		t.Fatal("dispatch fired for a fresh location")
	case <-time.After(100 * time.Millisecond):
	}

	// A location past the freshness window triggers one
	newTestUser(t, store, "u2", "Eli")
	if _, err := store.UpdateToken(ctx, "u2", &token); err != nil {
		t.Fatalf("UpdateToken failed: %v", err)
	}
	if _, err := store.UpdateLocation(ctx, "u2", 1, 1, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("UpdateLocation failed: %v", err)
	}
	user, _ = store.GetByID(ctx, "u2")
	svc.RefreshIfStale(user)
	select {
	case <-sender.sent:
	case <-time.After(time.Second):
		t.Fatal("no dispatch for a stale location")
	}
}
