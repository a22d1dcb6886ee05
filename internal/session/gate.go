package session

import (
	"errors"
	"sync"
	"time"
)

// DefaultTTL is how long an unlock stays valid without a refresh
const DefaultTTL = 60 * time.Second

// ErrEmptyKey is returned when unlocking with an empty key
var ErrEmptyKey = errors.New("empty session key")

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock
var SystemClock Clock = systemClock{}

// Gate holds the unlock key for a limited time. It is never persisted.
// All methods are safe for concurrent use.
type Gate struct {
	mu          sync.Mutex
	clock       Clock
	ttl         time.Duration
	key         string
	held        bool
	lastRefresh time.Time
}

// NewGate creates a locked gate. A nil clock means the wall clock and a
// non-positive ttl means DefaultTTL.
func NewGate(clock Clock, ttl time.Duration) *Gate {
	if clock == nil {
		clock = SystemClock
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gate{clock: clock, ttl: ttl}
}

// TTL returns the configured validity window
func (g *Gate) TTL() time.Duration {
	return g.ttl
}

// Unlock stores key and starts a new validity window. An empty key leaves
// the gate as it was.
func (g *Gate) Unlock(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.key = key
	g.held = true
	g.lastRefresh = g.clock.Now()
	return nil
}

// Lock forgets the key
func (g *Gate) Lock() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.key = ""
	g.held = false
	g.lastRefresh = time.Time{}
}

// CurrentKey returns the held key, if any, regardless of expiry
func (g *Gate) CurrentKey() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.key, g.held
}

// IsValid reports whether a key is held and has not expired
func (g *Gate) IsValid() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.validLocked()
}

// Refresh restarts the validity window. It does nothing on a locked gate.
func (g *Gate) Refresh() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held {
		g.lastRefresh = g.clock.Now()
	}
}

// Touch returns the key and refreshes the window if the gate is valid,
// as a single step. Callers that need the key for a read or write use this
// instead of IsValid followed by CurrentKey.
func (g *Gate) Touch() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.validLocked() {
		return "", false
	}
	g.lastRefresh = g.clock.Now()
	return g.key, true
}

// Remaining returns how long the gate stays valid, or zero if it is not
func (g *Gate) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.validLocked() {
		return 0
	}
	return g.ttl - g.clock.Now().Sub(g.lastRefresh)
}

func (g *Gate) validLocked() bool {
	return g.held && g.clock.Now().Sub(g.lastRefresh) < g.ttl
}
