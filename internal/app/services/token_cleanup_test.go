package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeExpiredDeleter struct {
	mu     sync.Mutex
	sweeps int
}

func (f *fakeExpiredDeleter) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	return 2, nil
}

func (f *fakeExpiredDeleter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweeps
}

func TestTokenCleaner_SweepsUntilCancelled(t *testing.T) {
	deleter := &fakeExpiredDeleter{}
	cleaner := NewTokenCleaner(deleter, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cleaner.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for deleter.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("sweeps = %d, want at least 3", deleter.count())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleaner did not stop after cancellation")
	}
}

func TestTokenCleaner_SweepsImmediatelyOnStart(t *testing.T) {
	deleter := &fakeExpiredDeleter{}
	cleaner := NewTokenCleaner(deleter, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cleaner.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for deleter.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("no sweep before the first tick")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleaner did not stop after cancellation")
	}
}
