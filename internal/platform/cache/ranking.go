// Package cache keeps computed ranked lists in Redis. Entries are keyed by a
// generation counter, so any graph write invalidates every entry at once by
// bumping it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

const (
	keyPrefix     = "tutormatch:rank"
	generationKey = keyPrefix + ":gen"
)

// kv is the subset of the redis client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RankingCache struct {
	rdb    kv
	closer func() error
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedis connects and pings. An empty address is a configuration error;
// callers that want no cache should not construct one.
func NewRedis(ctx context.Context, cfg Config, log *logger.Logger) (*RankingCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	c := newRankingCache(rdb, cfg.TTL, log)
	c.closer = rdb.Close
	return c, nil
}

func newRankingCache(rdb kv, ttl time.Duration, log *logger.Logger) *RankingCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RankingCache{rdb: rdb, ttl: ttl, log: log.With("service", "RankingCache")}
}

// Generation returns the current cache generation. Callers read it before
// touching the graph and pass it to Get and Set, so a ranking computed
// across a write lands under the stale generation and is never served.
func (c *RankingCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", generationKey, err)
	}
	return gen, nil
}

// Get returns ok=false on a miss.
func (c *RankingCache) Get(ctx context.Context, gen int64, student, course string) ([]domain.Recommendation, bool, error) {
	key := rankingKey(gen, student, course)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var out []domain.Recommendation
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("dropping undecodable ranking cache entry", "key", key, "error", err)
		return nil, false, nil
	}
	return out, true, nil
}

func (c *RankingCache) Set(ctx context.Context, gen int64, student, course string, recs []domain.Recommendation) error {
	key := rankingKey(gen, student, course)
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode ranking: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate bumps the generation. Old entries expire with their TTL.
func (c *RankingCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("redis incr %s: %w", generationKey, err)
	}
	return nil
}

func (c *RankingCache) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer()
}

func rankingKey(gen int64, student, course string) string {
	if course == "" {
		course = "*"
	}
	return strings.Join([]string{keyPrefix, strconv.FormatInt(gen, 10), student, course}, ":")
}
