package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cardtrack/internal/pricing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultPrefix namespaces quote keys in a shared Redis.
const DefaultPrefix = "cardtrack:quote:"

// Redis stores quotes as JSON with a server-side TTL. Any Redis or decoding
// failure is logged and reported as a miss, so the quote is recomputed.
type Redis struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger
}

// NewRedis wraps client. An empty prefix means DefaultPrefix.
func NewRedis(client redis.Cmdable, prefix string, ttl time.Duration, log *zap.Logger) *Redis {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = pricing.DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl, now: time.Now, log: log}
}

func (c *Redis) key(sig string) string { return c.prefix + sig }

// Get loads the entry for sig.
func (c *Redis) Get(ctx context.Context, sig string) (pricing.Entry, bool) {
	data, err := c.client.Get(ctx, c.key(sig)).Bytes()
	if errors.Is(err, redis.Nil) {
		return pricing.Entry{}, false
	}
	if err != nil {
		c.log.Warn("quote cache read failed", zap.String("signature", sig), zap.Error(err))
		return pricing.Entry{}, false
	}

	var e pricing.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.Warn("quote cache entry corrupt", zap.String("signature", sig), zap.Error(err))
		return pricing.Entry{}, false
	}
	if !c.now().Before(e.ExpiresAt) {
		return pricing.Entry{}, false
	}
	return e, true
}

// Set writes the entry for sig with a fresh TTL.
func (c *Redis) Set(ctx context.Context, sig string, e pricing.Entry) {
	e.ExpiresAt = c.now().Add(c.ttl)
	data, err := json.Marshal(e)
	if err != nil {
		c.log.Warn("quote cache encode failed", zap.String("signature", sig), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(sig), data, c.ttl).Err(); err != nil {
		c.log.Warn("quote cache write failed", zap.String("signature", sig), zap.Error(err))
	}
}

// Ping checks connectivity at startup.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
