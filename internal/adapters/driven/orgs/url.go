package orgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/philiph/orglogo/internal/core/domain"
	"github.com/philiph/orglogo/internal/core/ports"
)

// URLStore loads the organization directory from a JSON endpoint with
// caching. On refresh failure the previously loaded directory keeps
// being served (stale but available).
type URLStore struct {
	url        string
	httpClient *http.Client
	cacheTTL   time.Duration
	idFilter   string
	logger     *zap.Logger
	metrics    ports.MetricsRecorder
	onRefresh  func(error) // callback after background refresh (for testing)
	clock      Clock

	mu              sync.RWMutex
	orgs            []domain.Organization
	lastFetch       time.Time
	etag            string
	lastModified    string
	isFresh         bool      // true if last refresh succeeded
	lastSuccessTime time.Time // time of last successful refresh
	lastError       error     // error from last refresh (nil if success)

	// Background refresh goroutine management
	stopCh chan struct{}
	closed bool
}

// NewURLStore creates a new URLStore with passive refresh. Passive
// refresh means the directory is only fetched when Refresh() is called
// and the cache has expired (based on cacheTTL).
func NewURLStore(url string, cacheTTL time.Duration, opts ...Option) *URLStore {
	options := &directoryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	clock := options.clock
	if clock == nil {
		clock = RealClock{}
	}
	return &URLStore{
		url:       url,
		cacheTTL:  cacheTTL,
		idFilter:  options.idFilter,
		logger:    options.logger,
		metrics:   options.metrics,
		onRefresh: options.onRefresh,
		clock:     clock,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewURLStoreWithRefresh creates a new URLStore with active background
// refresh. The store periodically fetches the directory at the given
// refreshInterval, regardless of cache TTL.
// Call Close() to stop the background goroutine.
func NewURLStoreWithRefresh(url string, refreshInterval time.Duration, opts ...Option) *URLStore {
	s := NewURLStore(url, refreshInterval, opts...)
	s.stopCh = make(chan struct{})
	go s.refreshLoop(refreshInterval)
	return s
}

// refreshLoop runs periodic directory refresh in the background.
func (s *URLStore) refreshLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := s.doRefresh(context.Background(), true) // force=true bypasses cache TTL
			if s.logger != nil {
				if err != nil {
					s.logger.Warn("background directory refresh failed",
						zap.Error(err))
				} else {
					s.mu.RLock()
					orgCount := len(s.orgs)
					s.mu.RUnlock()
					s.logger.Info("background directory refresh succeeded",
						zap.Int("org_count", orgCount))
				}
			}
			if s.onRefresh != nil {
				s.onRefresh(err)
			}
		case <-s.stopCh:
			return
		}
	}
}

// Close stops the background refresh goroutine if running.
// Safe to call multiple times (idempotent).
// Safe to call on stores created without background refresh.
func (s *URLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil && !s.closed {
		close(s.stopCh)
		s.closed = true
	}
	return nil
}

// Load fetches and parses the directory from the URL.
// This should be called during initialization.
func (s *URLStore) Load() error {
	return s.Refresh(context.Background())
}

// GetOrganization returns the organization with the given ID.
func (s *URLStore) GetOrganization(id string) (*domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.orgs {
		if s.orgs[i].ID == id {
			org := s.orgs[i]
			return &org, nil
		}
	}
	return nil, domain.ErrOrgNotFound
}

// ListOrganizations returns all organizations matching the search term.
func (s *URLStore) ListOrganizations(filter string) ([]domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.orgs) == 0 {
		return nil, nil
	}

	var result []domain.Organization
	for _, org := range s.orgs {
		if domain.MatchesSearch(&org, filter) {
			result = append(result, org)
		}
	}
	return result, nil
}

// IsFresh returns true if the cached directory is from a successful
// recent refresh. Returns false before any load, or after a failed
// refresh (stale data is still served).
func (s *URLStore) IsFresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isFresh
}

// LastError returns the error from the most recent failed refresh, or
// nil if the last refresh succeeded.
func (s *URLStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Health returns comprehensive health status for monitoring.
func (s *URLStore) Health() domain.DirectoryHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.DirectoryHealth{
		IsFresh:         s.isFresh,
		LastSuccessTime: s.lastSuccessTime,
		LastError:       s.lastError,
		OrgCount:        len(s.orgs),
	}
}

// Refresh fetches the directory from the URL if the cache has expired.
// On failure, existing cached data is preserved (graceful degradation)
// and IsFresh() returns false. The error is still returned for
// logging/monitoring.
func (s *URLStore) Refresh(ctx context.Context) error {
	return s.doRefresh(ctx, false)
}

// doRefresh fetches the directory from the URL.
// If force is false, respects cache TTL and returns early if cache is valid.
// If force is true, always fetches (used by background refresh).
func (s *URLStore) doRefresh(ctx context.Context, force bool) error {
	// Check if cache is still valid (unless forced)
	s.mu.RLock()
	if !force && !s.lastFetch.IsZero() && s.clock.Now().Sub(s.lastFetch) < s.cacheTTL {
		s.mu.RUnlock()
		return nil // Cache hit
	}
	etag := s.etag
	lastModified := s.lastModified
	s.mu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		refreshErr := fmt.Errorf("create request: %w", err)
		s.markRefreshFailed(refreshErr)
		return refreshErr
	}

	req.Header.Set("User-Agent", "orglogo/1")
	req.Header.Set("Accept", "application/json")

	// Add conditional request headers if we have cached values
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastModified != "" {
		req.Header.Set("If-Modified-Since", lastModified)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		refreshErr := fmt.Errorf("fetch directory: %w", err)
		s.markRefreshFailed(refreshErr)
		return refreshErr
	}
	defer resp.Body.Close()

	// Handle 304 Not Modified - data hasn't changed, still counts as success
	if resp.StatusCode == http.StatusNotModified {
		s.mu.Lock()
		s.lastFetch = s.clock.Now()
		s.isFresh = true
		s.lastError = nil
		// lastSuccessTime stays the same (data itself didn't change)
		s.mu.Unlock()
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		refreshErr := fmt.Errorf("fetch directory: HTTP %d", resp.StatusCode)
		s.markRefreshFailed(refreshErr)
		return refreshErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		refreshErr := fmt.Errorf("read response: %w", err)
		s.markRefreshFailed(refreshErr)
		return refreshErr
	}

	var doc directoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		refreshErr := fmt.Errorf("parse directory: %w", err)
		s.markRefreshFailed(refreshErr)
		return refreshErr
	}

	orgs, err := validateAndFilter(doc.Organizations, s.idFilter)
	if err != nil {
		s.markRefreshFailed(err)
		return err
	}

	// Success - update all state
	now := s.clock.Now()
	s.mu.Lock()
	s.orgs = orgs
	s.lastFetch = now
	s.etag = resp.Header.Get("ETag")
	s.lastModified = resp.Header.Get("Last-Modified")
	s.isFresh = true
	s.lastSuccessTime = now
	s.lastError = nil
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordDirectoryRefresh("url", true, len(orgs))
	}

	return nil
}

// markRefreshFailed updates state when refresh fails, preserving existing data.
func (s *URLStore) markRefreshFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isFresh = false
	s.lastError = err
	if s.metrics != nil {
		s.metrics.RecordDirectoryRefresh("url", false, 0)
	}
	// orgs, lastSuccessTime are preserved - serve stale data
}

// Ensure URLStore implements ports.OrganizationStore
var _ ports.OrganizationStore = (*URLStore)(nil)
