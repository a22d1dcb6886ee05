package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestUnlockThenValid(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	g := NewGate(clock, time.Minute)

	if g.IsValid() {
		t.Fatal("Expected new gate to be locked")
	}

	g.Unlock("secret")
	if !g.IsValid() {
		t.Fatal("Expected gate to be valid right after unlock")
	}
	if key, ok := g.CurrentKey(); !ok || key != "secret" {
		t.Errorf("Expected key secret, got %q (%v)", key, ok)
	}

	clock.Advance(59 * time.Second)
	if !g.IsValid() {
		t.Error("Expected gate to be valid before TTL")
	}

	clock.Advance(time.Second)
	if g.IsValid() {
		t.Error("Expected gate to expire at TTL")
	}
	if _, ok := g.CurrentKey(); !ok {
		t.Error("Expected key to be retained after expiry until Lock")
	}
}

func TestRefreshExtendsWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	g := NewGate(clock, time.Minute)
	g.Unlock("secret")

	clock.Advance(50 * time.Second)
	g.Refresh()
	clock.Advance(50 * time.Second)

	if !g.IsValid() {
		t.Error("Expected refresh to extend validity")
	}
	if got := g.Remaining(); got != 10*time.Second {
		t.Errorf("Expected 10s remaining, got %v", got)
	}
}

func TestRefreshOnLockedGateIsNoop(t *testing.T) {
	t.Parallel()

	g := NewGate(newFakeClock(), time.Minute)
	g.Refresh()

	if g.IsValid() {
		t.Error("Expected refresh not to unlock the gate")
	}
	if _, ok := g.Touch(); ok {
		t.Error("Expected Touch on locked gate to fail")
	}
}

func TestLockClearsKey(t *testing.T) {
	t.Parallel()

	g := NewGate(newFakeClock(), time.Minute)
	g.Unlock("secret")
	g.Lock()

	if g.IsValid() {
		t.Error("Expected gate to be invalid after lock")
	}
	if key, ok := g.CurrentKey(); ok || key != "" {
		t.Errorf("Expected no key after lock, got %q", key)
	}
	if g.Remaining() != 0 {
		t.Error("Expected zero remaining after lock")
	}
}

func TestEmptyKeyKeepsGateLocked(t *testing.T) {
	t.Parallel()

	g := NewGate(newFakeClock(), time.Minute)
	if err := g.Unlock(""); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("Expected ErrEmptyKey, got %v", err)
	}
	if g.IsValid() {
		t.Error("Expected gate to stay locked")
	}
	if _, ok := g.CurrentKey(); ok {
		t.Error("Expected no key to be held")
	}

	if err := g.Unlock("secret"); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if err := g.Unlock(""); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("Expected ErrEmptyKey, got %v", err)
	}
	if key, ok := g.CurrentKey(); !ok || key != "secret" {
		t.Errorf("Expected held key to be kept, got %q (%v)", key, ok)
	}
}

func TestTouchRefreshes(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	g := NewGate(clock, time.Minute)
	g.Unlock("secret")

	clock.Advance(45 * time.Second)
	key, ok := g.Touch()
	if !ok || key != "secret" {
		t.Fatalf("Expected Touch to return key, got %q (%v)", key, ok)
	}
	clock.Advance(45 * time.Second)
	if !g.IsValid() {
		t.Error("Expected Touch to have refreshed the window")
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	g := NewGate(nil, 0)
	if g.TTL() != DefaultTTL {
		t.Errorf("Expected default TTL %v, got %v", DefaultTTL, g.TTL())
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	g := NewGate(nil, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				g.Unlock("k")
				g.Lock()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				g.IsValid()
				g.Refresh()
				g.Touch()
			}
		}()
	}
	wg.Wait()
}

func TestWatchReportsExpiryOnce(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	g := NewGate(clock, time.Minute)
	g.Unlock("secret")

	var fired atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Watch(ctx, g, 5*time.Millisecond, func() { fired.Add(1) })
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	clock.Advance(2 * time.Minute)
	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	if got := fired.Load(); got != 1 {
		t.Errorf("Expected one expiry notification, got %d", got)
	}
}
