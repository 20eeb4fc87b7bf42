package logocache

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/philiph/orglogo/internal/core/domain"
	"github.com/philiph/orglogo/internal/core/ports"
)

const redisKeyPrefix = "orglogo:"

var nopLogger = zap.NewNop()

// RedisOpts configures a Redis-backed logo cache.
type RedisOpts struct {
	// Client cannot be nil.
	Client redis.Cmdable

	// ClientCloser closes Client when Redis.Close is called. Optional.
	ClientCloser io.Closer

	// ClientTimeout specifies the timeout for read and write operations.
	// Default is 1s.
	ClientTimeout time.Duration

	// RetainFor is the inactivity window after which an entry is evicted.
	// Used as the Redis key TTL and re-applied on every hit.
	RetainFor time.Duration

	// Logger is the *zap.Logger for this cache.
	// A nil Logger disables logging.
	Logger *zap.Logger
}

// Init validates opts and fills defaults.
func (opts *RedisOpts) Init() error {
	if opts.Client == nil {
		return errors.New("nil client")
	}
	if opts.ClientTimeout <= 0 {
		opts.ClientTimeout = time.Second
	}
	if opts.RetainFor <= 0 {
		return errors.New("non-positive retention window")
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger
	}
	return nil
}

// Redis is a logo cache backed by a Redis server, letting multiple
// service replicas share one cache. On a client error the cache disables
// itself (all operations become misses/no-ops) and recovers once a
// background ping succeeds again.
type Redis struct {
	opts           RedisOpts
	clientDisabled uint32
}

// NewRedis creates a new Redis-backed logo cache.
func NewRedis(opts RedisOpts) (*Redis, error) {
	if err := opts.Init(); err != nil {
		return nil, err
	}
	return &Redis{opts: opts}, nil
}

func (r *Redis) disabled() bool {
	return atomic.LoadUint32(&r.clientDisabled) != 0
}

func (r *Redis) disableClient() {
	if atomic.CompareAndSwapUint32(&r.clientDisabled, 0, 1) {
		r.opts.Logger.Warn("redis temporarily disabled")
		go func() {
			const maxBackoff = time.Second * 30
			backoff := time.Millisecond * 100
			for {
				time.Sleep(backoff)
				ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*500)
				err := r.opts.Client.Ping(ctx).Err()
				cancel()
				if err != nil {
					if backoff >= maxBackoff {
						backoff = maxBackoff
					} else {
						backoff += time.Duration(rand.Intn(1000))*time.Millisecond + time.Second
					}
					r.opts.Logger.Warn("redis ping failed", zap.Error(err), zap.Duration("next_ping", backoff))
					continue
				}
				atomic.StoreUint32(&r.clientDisabled, 0)
				return
			}
		}()
	}
}

// Get returns the entry for the locator and re-applies the retention TTL.
func (r *Redis) Get(locator string) (*ports.CachedLogo, bool) {
	if r.disabled() {
		return nil, false
	}

	key := redisKeyPrefix + locator
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.ClientTimeout)
	defer cancel()
	b, err := r.opts.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.opts.Logger.Warn("redis get", zap.Error(err))
			r.disableClient()
		}
		return nil, false
	}

	entry, err := unpackEntry(b)
	if err != nil {
		r.opts.Logger.Warn("redis data unpack error", zap.Error(err))
		return nil, false
	}

	// A hit counts as activity; push the eviction horizon out again.
	if err := r.opts.Client.Expire(ctx, key, r.opts.RetainFor).Err(); err != nil {
		r.opts.Logger.Warn("redis expire", zap.Error(err))
	}
	return entry, true
}

// Set stores the entry under the locator with the retention TTL.
func (r *Redis) Set(locator string, entry ports.CachedLogo) {
	if r.disabled() {
		return
	}

	key := redisKeyPrefix + locator
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.ClientTimeout)
	defer cancel()
	if err := r.opts.Client.Set(ctx, key, packEntry(entry), r.opts.RetainFor).Err(); err != nil {
		r.opts.Logger.Warn("redis set", zap.Error(err))
		r.disableClient()
	}
}

// Delete removes the entry for the locator.
func (r *Redis) Delete(locator string) {
	if r.disabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.opts.ClientTimeout)
	defer cancel()
	if err := r.opts.Client.Del(ctx, redisKeyPrefix+locator).Err(); err != nil {
		r.opts.Logger.Warn("redis del", zap.Error(err))
		r.disableClient()
	}
}

// Len returns the number of keys in the backing database.
func (r *Redis) Len() int {
	if r.disabled() {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.opts.ClientTimeout)
	defer cancel()
	i, err := r.opts.Client.DBSize(ctx).Result()
	if err != nil {
		r.opts.Logger.Error("dbsize", zap.Error(err))
		return 0
	}
	return int(i)
}

// Close closes the redis client if a closer was provided.
func (r *Redis) Close() error {
	if f := r.opts.ClientCloser; f != nil {
		return f.Close()
	}
	return nil
}

// packEntry packs storedAt, freshUntil and the encoded value into one
// byte slice for storage as a single Redis value.
func packEntry(entry ports.CachedLogo) []byte {
	v := []byte(entry.Value)
	b := make([]byte, 8+8+len(v))
	binary.BigEndian.PutUint64(b[:8], uint64(entry.StoredAt.Unix()))
	binary.BigEndian.PutUint64(b[8:16], uint64(entry.FreshUntil.Unix()))
	copy(b[16:], v)
	return b
}

func unpackEntry(b []byte) (*ports.CachedLogo, error) {
	if len(b) < 16 {
		return nil, errors.New("value is too short")
	}
	return &ports.CachedLogo{
		Value:      domain.EncodedLogo(b[16:]),
		StoredAt:   time.Unix(int64(binary.BigEndian.Uint64(b[:8])), 0),
		FreshUntil: time.Unix(int64(binary.BigEndian.Uint64(b[8:16])), 0),
	}, nil
}

// Ensure Redis implements ports.LogoCache
var _ ports.LogoCache = (*Redis)(nil)
