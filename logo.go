package orglogo

import (
	"github.com/philiph/orglogo/internal/core/domain"
	"github.com/philiph/orglogo/internal/core/ports"

	"github.com/philiph/orglogo/internal/adapters/driven/logo"
	"github.com/philiph/orglogo/internal/adapters/driven/logocache"
)

// Re-export logo types from domain and ports
type EncodedLogo = domain.EncodedLogo
type CachedLogo = ports.CachedLogo
type LogoProvider = ports.LogoProvider
type LogoCache = ports.LogoCache

// Re-export the caching provider and its options
type CachingProvider = logo.CachingProvider

var (
	NewCachingProvider = logo.NewCachingProvider
	WithHTTPClient     = logo.WithHTTPClient
	WithHTTPTimeout    = logo.WithHTTPTimeout
	WithMaxSize        = logo.WithMaxSize
	WithMaxDimension   = logo.WithMaxDimension
	WithFreshFor       = logo.WithFreshFor
	WithRetainFor      = logo.WithRetainFor
	WithCache          = logo.WithCache
)

// Re-export cache backends
type MemoryCache = logocache.Memory
type RedisCache = logocache.Redis
type RedisCacheOpts = logocache.RedisOpts

var (
	NewMemoryCache = logocache.NewMemory
	NewRedisCache  = logocache.NewRedis
)

// Re-export data URI helpers
var (
	EncodeLogo           = domain.EncodeLogo
	NormalizeContentType = domain.NormalizeContentType
)
