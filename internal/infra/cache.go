package infra

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	boardKeyPrefix = "board:"
	boardGenKey    = "board:gen"
)

// NewRedis parses redisURL and pings the server once at startup.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// BoardCache keeps the raw pallet lists behind the office boards for a short
// TTL. All failures are logged and treated as a miss; the store stays the
// source of truth. Calls go through a circuit breaker so a Redis outage costs
// a few timeouts, not one per request.
//
// Entries are keyed by a generation counter. Invalidate bumps the counter, so
// a list read before a write and stored after it lands under a key no reader
// asks for again and simply expires.
type BoardCache struct {
	rdb *redis.Client
	ttl time.Duration
	cb  *CircuitBreaker
}

func NewBoardCache(rdb *redis.Client, ttl time.Duration) *BoardCache {
	return &BoardCache{rdb: rdb, ttl: ttl, cb: NewCircuitBreaker(DefaultCBConfig())}
}

// Breaker exposes the cache's circuit breaker state.
func (c *BoardCache) Breaker() CBState { return c.cb.State() }

func boardKey(kind string, gen int64) string {
	return boardKeyPrefix + kind + ":" + strconv.FormatInt(gen, 10)
}

// Generation returns the current board generation. ok is false when Redis
// cannot be reached; callers then skip the cache entirely.
func (c *BoardCache) Generation(ctx context.Context) (int64, bool) {
	var gen int64
	err := c.cb.Execute(func() error {
		n, gerr := c.rdb.Get(ctx, boardGenKey).Int64()
		if errors.Is(gerr, redis.Nil) {
			return nil
		}
		gen = n
		return gerr
	})
	if err != nil {
		if !errors.Is(err, ErrCircuitOpen) {
			log.Warn().Err(err).Msg("board cache: generation read failed")
		}
		return 0, false
	}
	return gen, true
}

// Get decodes the entry for kind at generation gen into dest and reports a hit.
func (c *BoardCache) Get(ctx context.Context, kind string, gen int64, dest interface{}) bool {
	var raw []byte
	err := c.cb.Execute(func() error {
		var gerr error
		raw, gerr = c.rdb.Get(ctx, boardKey(kind, gen)).Bytes()
		if errors.Is(gerr, redis.Nil) {
			return nil
		}
		return gerr
	})
	if err != nil {
		if !errors.Is(err, ErrCircuitOpen) {
			log.Warn().Err(err).Str("kind", kind).Msg("board cache: get failed")
		}
		return false
	}
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("board cache: corrupt entry")
		return false
	}
	return true
}

// Set stores v under the generation the caller read before querying the store.
func (c *BoardCache) Set(ctx context.Context, kind string, gen int64, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	err = c.cb.Execute(func() error { return c.rdb.Set(ctx, boardKey(kind, gen), b, c.ttl).Err() })
	if err != nil && !errors.Is(err, ErrCircuitOpen) {
		log.Warn().Err(err).Str("kind", kind).Msg("board cache: set failed")
	}
}

// Invalidate retires every board entry by bumping the generation. Called
// after each write.
func (c *BoardCache) Invalidate(ctx context.Context) {
	err := c.cb.Execute(func() error { return c.rdb.Incr(ctx, boardGenKey).Err() })
	if err != nil && !errors.Is(err, ErrCircuitOpen) {
		log.Warn().Err(err).Msg("board cache: invalidate failed")
	}
}
