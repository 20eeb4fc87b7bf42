package logo

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/philiph/orglogo/internal/adapters/driven/logocache"
	"github.com/philiph/orglogo/internal/core/domain"
	"github.com/philiph/orglogo/internal/core/ports"
	"github.com/philiph/orglogo/testfixtures/imageserver"
)

func cacheEntryAt(now time.Time) ports.CachedLogo {
	return ports.CachedLogo{
		Value:      domain.EncodeLogo([]byte{0x89, 0x50, 0x4e, 0x47}, "image/png"),
		StoredAt:   now,
		FreshUntil: now.Add(time.Hour),
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestEncodedLogo_AbsentLocator(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	p := NewCachingProvider(WithLogger(zaptest.NewLogger(t)))
	defer p.Close()

	if got := p.EncodedLogo(context.Background(), ""); got != "" {
		t.Errorf("EncodedLogo(\"\") = %q, want empty", got)
	}
	if hits := origin.Hits("/logo.png"); hits != 0 {
		t.Errorf("absent locator must not cause network activity, got %d hits", hits)
	}
}

func TestEncodedLogo_SuccessRoundTrip(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	p := NewCachingProvider(WithLogger(zaptest.NewLogger(t)))
	defer p.Close()

	encoded := p.EncodedLogo(context.Background(), origin.URL("/logo.png"))
	if encoded.IsZero() {
		t.Fatal("expected a logo, got empty")
	}

	data, contentType, err := encoded.Decode()
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("contentType = %q, want image/png", contentType)
	}
	if !bytes.Equal(data, origin.PNG()) {
		t.Error("decoded bytes differ from the origin image")
	}
}

func TestEncodedLogo_FreshHitSkipsNetwork(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	p := NewCachingProvider(WithLogger(zaptest.NewLogger(t)))
	defer p.Close()

	locator := origin.URL("/logo.png")
	first := p.EncodedLogo(context.Background(), locator)
	second := p.EncodedLogo(context.Background(), locator)

	if first != second {
		t.Error("repeated lookups should return the cached value")
	}
	if hits := origin.Hits("/logo.png"); hits != 1 {
		t.Errorf("origin hits = %d, want 1", hits)
	}
}

func TestEncodedLogo_HTTPErrorIsNormalized(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	p := NewCachingProvider(WithLogger(zaptest.NewLogger(t)))
	defer p.Close()

	locator := origin.URL("/broken")
	if got := p.EncodedLogo(context.Background(), locator); got != "" {
		t.Errorf("EncodedLogo(broken) = %q, want empty", got)
	}

	// The failure is cached as a negative entry; a second lookup within
	// the freshness window must not hammer the origin.
	if got := p.EncodedLogo(context.Background(), locator); got != "" {
		t.Errorf("EncodedLogo(broken) second call = %q, want empty", got)
	}
	if hits := origin.Hits("/broken"); hits != 1 {
		t.Errorf("origin hits = %d, want 1", hits)
	}
}

func TestEncodedLogo_NotFoundIsNormalized(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	p := NewCachingProvider(WithLogger(zaptest.NewLogger(t)))
	defer p.Close()

	if got := p.EncodedLogo(context.Background(), origin.URL("/missing")); got != "" {
		t.Errorf("EncodedLogo(missing) = %q, want empty", got)
	}
}

func TestEncodedLogo_UnsupportedContentType(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	p := NewCachingProvider(WithLogger(zaptest.NewLogger(t)))
	defer p.Close()

	if got := p.EncodedLogo(context.Background(), origin.URL("/notimage")); got != "" {
		t.Errorf("EncodedLogo(notimage) = %q, want empty", got)
	}
}

func TestEncodedLogo_TransportErrorIsNormalized(t *testing.T) {
	origin := imageserver.New(t)
	locator := origin.URL("/logo.png")
	origin.Close() // connection refused from here on

	p := NewCachingProvider(WithLogger(zaptest.NewLogger(t)))
	defer p.Close()

	if got := p.EncodedLogo(context.Background(), locator); got != "" {
		t.Errorf("EncodedLogo(unreachable) = %q, want empty", got)
	}
}

func TestEncodedLogo_MaxSizeExceeded(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	p := NewCachingProvider(
		WithLogger(zaptest.NewLogger(t)),
		WithMaxSize(10),
	)
	defer p.Close()

	if got := p.EncodedLogo(context.Background(), origin.URL("/logo.png")); got != "" {
		t.Errorf("EncodedLogo(oversized) = %q, want empty", got)
	}
}

func TestEncodedLogo_SVGPassesThrough(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	p := NewCachingProvider(
		WithLogger(zaptest.NewLogger(t)),
		WithMaxDimension(8), // must not touch vector images
	)
	defer p.Close()

	encoded := p.EncodedLogo(context.Background(), origin.URL("/logo.svg"))
	if encoded.IsZero() {
		t.Fatal("expected a logo, got empty")
	}

	data, contentType, err := encoded.Decode()
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if contentType != "image/svg+xml" {
		t.Errorf("contentType = %q, want image/svg+xml (charset stripped)", contentType)
	}
	if string(data) != imageserver.SVG {
		t.Error("decoded bytes differ from the origin SVG")
	}
}

func TestEncodedLogo_DownscalesOversizedRaster(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	p := NewCachingProvider(
		WithLogger(zaptest.NewLogger(t)),
		WithMaxDimension(8), // origin serves 16x16
	)
	defer p.Close()

	encoded := p.EncodedLogo(context.Background(), origin.URL("/logo.png"))
	if encoded.IsZero() {
		t.Fatal("expected a logo, got empty")
	}

	data, contentType, err := encoded.Decode()
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("contentType = %q, want image/png", contentType)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > 8 || bounds.Dy() > 8 {
		t.Errorf("image is %dx%d, want at most 8x8", bounds.Dx(), bounds.Dy())
	}
}

func TestEncodedLogo_StaleServedThenRefreshed(t *testing.T) {
	origin := imageserver.New(t)
	defer origin.Close()

	clock := newFakeClock()
	refreshed := make(chan string, 1)
	cache := logocache.NewMemory(time.Hour*24, logocache.WithMemoryClock(clock))
	defer cache.Close()

	p := NewCachingProvider(
		WithLogger(zaptest.NewLogger(t)),
		WithClock(clock),
		WithCache(cache),
		WithFreshFor(time.Hour),
		WithOnRefresh(func(locator string) { refreshed <- locator }),
	)
	defer p.Close()

	locator := origin.URL("/logo.png")
	first := p.EncodedLogo(context.Background(), locator)
	if first.IsZero() {
		t.Fatal("expected a logo, got empty")
	}

	// Let the freshness window elapse. The stale value is served
	// immediately while exactly one refresh runs in the background.
	clock.Advance(time.Hour + time.Minute)
	stale := p.EncodedLogo(context.Background(), locator)
	if stale != first {
		t.Error("stale lookup should serve the cached value")
	}

	select {
	case got := <-refreshed:
		if got != locator {
			t.Errorf("refreshed locator = %q, want %q", got, locator)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("background refresh did not complete")
	}

	if hits := origin.Hits("/logo.png"); hits != 2 {
		t.Errorf("origin hits = %d, want 2 (initial fetch plus one refresh)", hits)
	}

	// The refreshed entry is fresh again: no further network activity.
	p.EncodedLogo(context.Background(), locator)
	if hits := origin.Hits("/logo.png"); hits != 2 {
		t.Errorf("origin hits after refresh = %d, want 2", hits)
	}
}

func TestEncodedLogo_ConcurrentLookupsCoalesce(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{}, 16)
	var hitsMu sync.Mutex
	hits := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsMu.Lock()
		hits++
		hitsMu.Unlock()
		arrived <- struct{}{}
		<-release
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(imageserver.GeneratePNG(8, 8))
	}))
	defer srv.Close()

	p := NewCachingProvider(WithLogger(zaptest.NewLogger(t)))
	defer p.Close()

	const callers = 8
	results := make(chan domain.EncodedLogo, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- p.EncodedLogo(context.Background(), srv.URL+"/logo.png")
		}()
	}

	// Wait until the single in-flight fetch reached the origin, give the
	// remaining callers time to join it, then let the fetch finish.
	<-arrived
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	var want domain.EncodedLogo
	for got := range results {
		if got.IsZero() {
			t.Fatal("caller received empty logo")
		}
		if want == "" {
			want = got
		} else if got != want {
			t.Error("callers received different values")
		}
	}

	hitsMu.Lock()
	defer hitsMu.Unlock()
	if hits != 1 {
		t.Errorf("origin hits = %d, want 1 (concurrent lookups must coalesce)", hits)
	}
}

func TestClose_LeavesSuppliedCacheOpen(t *testing.T) {
	cache := logocache.NewMemory(time.Hour)
	defer cache.Close()

	p := NewCachingProvider(WithCache(cache))
	if err := p.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// The caller-supplied cache must still be usable.
	cache.Set("k", cacheEntryAt(time.Now()))
	if _, ok := cache.Get("k"); !ok {
		t.Error("supplied cache should survive provider Close")
	}
}
