package logocache

import (
	"sync"
	"time"

	"github.com/philiph/orglogo/internal/core/ports"
)

const defaultCleanupInterval = time.Minute

// Clock provides time functionality for testing.
type Clock interface {
	Now() time.Time
}

// RealClock uses the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// MemoryOption is a functional option for configuring the memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	cleanupInterval time.Duration
	clock           Clock
}

// WithCleanupInterval sets how often expired entries are swept.
// A non-positive interval disables the background janitor; entries are
// then only evicted lazily on access.
func WithCleanupInterval(interval time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = interval
	}
}

// WithMemoryClock sets a custom clock for time operations.
// Used for testing expiry without time.Sleep.
func WithMemoryClock(clock Clock) MemoryOption {
	return func(o *memoryOptions) {
		o.clock = clock
	}
}

type memEntry struct {
	entry       ports.CachedLogo
	retainUntil time.Time
}

// Memory is an in-memory logo cache. Thread-safe. Entries are retained
// for retainFor past their last access; a background janitor sweeps
// entries whose retention has elapsed.
type Memory struct {
	retainFor time.Duration
	clock     Clock

	mu      sync.RWMutex
	entries map[string]*memEntry

	janitorStop chan struct{}
	closeOnce   sync.Once
}

// NewMemory creates a new in-memory logo cache. retainFor is the
// inactivity window after which an entry is evicted.
func NewMemory(retainFor time.Duration, opts ...MemoryOption) *Memory {
	options := &memoryOptions{
		cleanupInterval: defaultCleanupInterval,
		clock:           RealClock{},
	}
	for _, opt := range opts {
		opt(options)
	}

	m := &Memory{
		retainFor:   retainFor,
		clock:       options.clock,
		entries:     make(map[string]*memEntry),
		janitorStop: make(chan struct{}),
	}
	if options.cleanupInterval > 0 {
		go m.janitor(options.cleanupInterval)
	}
	return m
}

// Get returns the entry for the locator. A hit counts as activity and
// extends the entry's retention window.
func (m *Memory) Get(locator string) (*ports.CachedLogo, bool) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[locator]
	if !ok {
		return nil, false
	}
	if !now.Before(e.retainUntil) {
		delete(m.entries, locator)
		return nil, false
	}

	e.retainUntil = now.Add(m.retainFor)
	entry := e.entry
	return &entry, true
}

// Set stores or replaces the entry for the locator.
func (m *Memory) Set(locator string, entry ports.CachedLogo) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[locator] = &memEntry{
		entry:       entry,
		retainUntil: now.Add(m.retainFor),
	}
}

// Delete removes the entry for the locator, if present.
func (m *Memory) Delete(locator string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, locator)
}

// Len returns the number of retained entries, including entries whose
// retention has elapsed but that the janitor has not swept yet.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close stops the background janitor. Idempotent.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() {
		close(m.janitorStop)
	})
	return nil
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.janitorStop:
			return
		case <-ticker.C:
			now := m.clock.Now()
			m.mu.Lock()
			for locator, e := range m.entries {
				if !now.Before(e.retainUntil) {
					delete(m.entries, locator)
				}
			}
			m.mu.Unlock()
		}
	}
}

// Ensure Memory implements ports.LogoCache
var _ ports.LogoCache = (*Memory)(nil)
