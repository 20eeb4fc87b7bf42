package ports

import (
	"context"
	"time"

	"github.com/philiph/orglogo/internal/core/domain"
)

// CachedLogo is one cache entry for a logo locator. A zero Value is the
// null-sentinel meaning "no logo configured" or "fetch failed"; negative
// entries are cached under the same windows as successes so a broken logo
// does not hammer its origin.
type CachedLogo struct {
	Value      domain.EncodedLogo
	StoredAt   time.Time
	FreshUntil time.Time
}

// IsFresh reports whether the entry is still within its freshness window.
func (c *CachedLogo) IsFresh(now time.Time) bool {
	return now.Before(c.FreshUntil)
}

// LogoCache is the port interface for keyed logo caching with TTL-based
// freshness and inactivity-based eviction. A Get hit counts as activity
// and extends the entry's retention.
type LogoCache interface {
	// Get returns the entry for the locator, or nil, false when the
	// locator is unknown or the entry's retention window has elapsed.
	Get(locator string) (*CachedLogo, bool)

	// Set stores or replaces the entry for the locator.
	Set(locator string, entry CachedLogo)

	// Delete removes the entry for the locator, if present.
	Delete(locator string)

	// Len returns the number of retained entries.
	Len() int

	// Close releases background resources. Idempotent.
	Close() error
}

// LogoProvider is the port interface for retrieving an organization's
// logo in embeddable form. The result is never an error: a zero
// EncodedLogo means "omit logo" and covers absent locators as well as
// fetch and encoding failures (which are logged, not propagated).
type LogoProvider interface {
	EncodedLogo(ctx context.Context, locator string) domain.EncodedLogo
}
