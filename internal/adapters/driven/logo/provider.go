package logo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sunshineplan/imgconv"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/philiph/orglogo/internal/adapters/driven/logocache"
	"github.com/philiph/orglogo/internal/core/domain"
	"github.com/philiph/orglogo/internal/core/ports"
)

// ErrLogoFetchFailed is returned when fetching a logo fails.
var ErrLogoFetchFailed = fmt.Errorf("logo fetch failed")

// allowedContentTypes are the content types we accept for logos.
var allowedContentTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/gif":     true,
	"image/svg+xml": true,
	"image/webp":    true,
	"image/x-icon":  true,
}

// normalizableContentTypes are raster types we can decode for downscaling.
var normalizableContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

const (
	defaultMaxLogoSize = 5 * 1024 * 1024 // 5MB
	defaultFreshFor    = time.Hour
	defaultRetainFor   = 24 * time.Hour

	// Background refreshes of stale entries are not caller-visible, so
	// they get a hard bound instead of inheriting a caller context.
	backgroundRefreshTimeout = 30 * time.Second

	userAgent = "orglogo/1"
)

// CachingProvider fetches logos from their locators, encodes them as
// data URIs and caches the result keyed by locator. Failures are logged
// and normalized to the empty result; callers always receive a value.
type CachingProvider struct {
	client       *resty.Client
	cache        ports.LogoCache
	ownCache     bool
	maxSize      int64
	maxDimension int
	freshFor     time.Duration
	clock        Clock
	logger       *zap.Logger
	metrics      ports.MetricsRecorder
	onRefresh    func(locator string)

	fetchSF   singleflight.Group
	refreshSF singleflight.Group
}

// NewCachingProvider creates a new caching logo provider. Without
// options it fetches with a plain HTTP client, keeps results fresh for
// 1 hour and retains them for 24 hours of inactivity in an in-memory
// cache it owns.
func NewCachingProvider(opts ...Option) *CachingProvider {
	options := &options{
		maxSize:   defaultMaxLogoSize,
		freshFor:  defaultFreshFor,
		retainFor: defaultRetainFor,
		logger:    zap.NewNop(),
		clock:     RealClock{},
	}
	for _, opt := range opts {
		opt(options)
	}

	var client *resty.Client
	if options.httpClient != nil {
		client = resty.NewWithClient(options.httpClient)
	} else {
		client = resty.New()
	}
	if options.httpTimeout > 0 {
		client.SetTimeout(options.httpTimeout)
	}
	client.SetHeader("User-Agent", userAgent)

	p := &CachingProvider{
		client:       client,
		cache:        options.cache,
		maxSize:      options.maxSize,
		maxDimension: options.maxDimension,
		freshFor:     options.freshFor,
		clock:        options.clock,
		logger:       options.logger,
		metrics:      options.metrics,
		onRefresh:    options.onRefresh,
	}
	if p.cache == nil {
		p.cache = logocache.NewMemory(options.retainFor)
		p.ownCache = true
	}
	return p
}

// EncodedLogo returns the logo behind the locator as a data URI, or ""
// when the locator is absent or the logo cannot be retrieved. A fresh
// cached value is returned without network activity; a stale one is
// served as-is while a single de-duplicated background refresh runs.
func (p *CachingProvider) EncodedLogo(ctx context.Context, locator string) domain.EncodedLogo {
	if locator == "" {
		return ""
	}

	if entry, ok := p.cache.Get(locator); ok {
		if entry.IsFresh(p.clock.Now()) {
			p.recordLookup(ports.CacheOutcomeHit)
			return entry.Value
		}
		p.recordLookup(ports.CacheOutcomeStale)
		p.refreshInBackground(locator)
		return entry.Value
	}
	p.recordLookup(ports.CacheOutcomeMiss)

	// Coalesce concurrent first fetches for the same locator. Every
	// waiter receives the value resolved by the one underlying fetch.
	v, _, _ := p.fetchSF.Do(locator, func() (interface{}, error) {
		return p.fetchAndStore(ctx, locator), nil
	})
	return v.(domain.EncodedLogo)
}

// Close releases the provider-owned cache. Caches supplied via WithCache
// stay open.
func (p *CachingProvider) Close() error {
	if p.ownCache {
		return p.cache.Close()
	}
	return nil
}

// fetchAndStore performs one fetch, normalizes failures to the empty
// value, and caches the outcome (negative entries included) under the
// freshness window.
func (p *CachingProvider) fetchAndStore(ctx context.Context, locator string) domain.EncodedLogo {
	encoded, err := p.fetch(ctx, locator)
	if err != nil {
		encoded = ""
		p.recordFailure(locator, err)
	} else if p.metrics != nil {
		p.metrics.RecordLogoFetch(ports.FetchResultSuccess)
	}

	now := p.clock.Now()
	p.cache.Set(locator, ports.CachedLogo{
		Value:      encoded,
		StoredAt:   now,
		FreshUntil: now.Add(p.freshFor),
	})
	if p.metrics != nil {
		p.metrics.SetCachedLogos(p.cache.Len())
	}
	return encoded
}

// refreshInBackground re-fetches a stale entry at most once at a time
// per locator.
func (p *CachingProvider) refreshInBackground(locator string) {
	p.refreshSF.DoChan(locator, func() (interface{}, error) {
		defer p.refreshSF.Forget(locator)
		ctx, cancel := context.WithTimeout(context.Background(), backgroundRefreshTimeout)
		defer cancel()
		p.fetchAndStore(ctx, locator)
		if p.onRefresh != nil {
			p.onRefresh(locator)
		}
		return nil, nil
	})
}

func (p *CachingProvider) fetch(ctx context.Context, locator string) (domain.EncodedLogo, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(locator)
	if err != nil {
		return "", domain.TransportError(fmt.Sprintf("fetch logo %s", locator), err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return "", domain.FetchFailedError(fmt.Sprintf("fetch logo %s: HTTP %d", locator, resp.StatusCode()))
	}

	data, err := io.ReadAll(io.LimitReader(body, p.maxSize+1))
	if err != nil {
		return "", domain.TransportError(fmt.Sprintf("read logo body %s", locator), err)
	}
	if int64(len(data)) > p.maxSize {
		return "", domain.FetchFailedError(fmt.Sprintf("logo %s exceeds max size %d bytes", locator, p.maxSize))
	}
	if len(data) == 0 {
		return "", domain.EncodingFailedError(fmt.Sprintf("logo %s has empty body", locator), nil)
	}

	contentType := domain.NormalizeContentType(resp.Header().Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = domain.NormalizeContentType(http.DetectContentType(data))
	}
	if !allowedContentTypes[contentType] {
		return "", domain.EncodingFailedError(fmt.Sprintf("logo %s has unsupported content type %s", locator, contentType), nil)
	}

	if p.maxDimension > 0 && normalizableContentTypes[contentType] {
		data, contentType, err = downscale(data, contentType, p.maxDimension)
		if err != nil {
			return "", domain.EncodingFailedError(fmt.Sprintf("normalize logo %s", locator), err)
		}
	}

	return domain.EncodeLogo(data, contentType), nil
}

// recordFailure logs and counts a normalized failure. The error never
// crosses the provider boundary.
func (p *CachingProvider) recordFailure(locator string, err error) {
	result := ports.FetchResultFetchFailed
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case domain.ErrCodeTransportError:
			result = ports.FetchResultTransportError
		case domain.ErrCodeEncodingFailed:
			result = ports.FetchResultEncodingFailed
		}
	}

	p.logger.Warn("logo fetch failed",
		zap.String("locator", locator),
		zap.String("result", result),
		zap.Error(err),
	)
	if p.metrics != nil {
		p.metrics.RecordLogoFetch(result)
	}
}

func (p *CachingProvider) recordLookup(outcome string) {
	if p.metrics != nil {
		p.metrics.RecordCacheLookup(outcome)
	}
}

// downscale shrinks an oversized raster so that its longer edge is at
// most maxDim pixels, re-encoding as PNG. Images already within bounds
// pass through unchanged.
func downscale(data []byte, contentType string, maxDim int) ([]byte, string, error) {
	img, err := imgconv.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return data, contentType, nil
	}

	opt := &imgconv.ResizeOption{}
	if w >= h {
		opt.Width = maxDim
	} else {
		opt.Height = maxDim
	}
	resized := imgconv.Resize(img, opt)

	var buf bytes.Buffer
	if err := imgconv.Write(&buf, resized, &imgconv.FormatOption{Format: imgconv.PNG}); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}

// Ensure CachingProvider implements ports.LogoProvider
var _ ports.LogoProvider = (*CachingProvider)(nil)
