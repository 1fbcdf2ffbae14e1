package ranker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhisek/triagez/internal/logging"
	"github.com/abhisek/triagez/internal/symptom"
)

// DefaultCacheTTL is how long a cached ranking stays valid.
const DefaultCacheTTL = 10 * time.Minute

const cacheKeyPrefix = "triagez:rank:"

// CachingRanker serves repeated scoring calls from redis. Cache failures are
// logged and fall through to the inner ranker.
type CachingRanker struct {
	inner  Ranker
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

var _ Ranker = (*CachingRanker)(nil)

// WithCache wraps r with a redis cache.
func WithCache(r Ranker, rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachingRanker {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachingRanker{
		inner:  r,
		rdb:    rdb,
		ttl:    ttl,
		logger: logging.OrNop(logger).Named("ranker.cache"),
	}
}

// NewRedisClient opens a client from a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return redis.NewClient(opts), nil
}

// CacheKey is the redis key for req. Requests whose symptom text normalizes
// to the same string share an entry.
func CacheKey(req Request) string {
	return fmt.Sprintf("%s%t:%s", cacheKeyPrefix, req.SkipGenerativeStep, symptom.Normalize(req.SymptomsText))
}

func (c *CachingRanker) Rank(ctx context.Context, req Request) (*Response, error) {
	key := CacheKey(req)

	cached, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var resp Response
		jerr := json.Unmarshal(cached, &resp)
		if jerr == nil {
			c.logger.Debug("cache hit", zap.String("key", key))
			return &resp, nil
		}
		c.logger.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(jerr))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("cache read failed", zap.Error(err))
	}

	resp, err := c.inner.Rank(ctx, req)
	if err != nil {
		return nil, err
	}

	// Empty rankings usually mean a malformed reply; don't pin them.
	if len(resp.Candidates) == 0 {
		return resp, nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.Error(err))
		return resp, nil
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.Error(err))
	}
	return resp, nil
}
