package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hacktrack:blob-lines:"

// * Redis is a shared second tier behind a local cache. Reads fall through
// * local -> redis and backfill local; writes go to both. Redis failures
// * degrade to a miss.
type Redis struct {
	rdb   *redis.Client
	local Store
}

func NewRedis(rdb *redis.Client, local Store) *Redis {
	return &Redis{rdb: rdb, local: local}
}

// * Connect parses a redis:// URL and pings it
func Connect(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func (r *Redis) Get(ctx context.Context, sha string) (int, bool) {
	if n, ok := r.local.Get(ctx, sha); ok {
		return n, true
	}

	val, err := r.rdb.Get(ctx, keyPrefix+sha).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Debug("redis get %s: %v", sha, err)
		}
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	r.local.Add(ctx, sha, n)
	return n, true
}

func (r *Redis) Add(ctx context.Context, sha string, lines int) {
	r.local.Add(ctx, sha, lines)
	if err := r.rdb.Set(ctx, keyPrefix+sha, lines, 0).Err(); err != nil {
		logger.Debug("redis set %s: %v", sha, err)
	}
}

// * Open builds the blob cache: an in-process tier sized by size, fronted by
// * Redis when redisURL is set. An unreachable Redis is logged and skipped.
func Open(size int, redisURL string) (Store, error) {
	local, err := New(size)
	if err != nil {
		return nil, err
	}
	if redisURL == "" {
		return local, nil
	}

	rdb, err := Connect(redisURL)
	if err != nil {
		logger.Warn("blob cache running without redis: %v", err)
		return local, nil
	}
	logger.Info("blob cache shared through redis")
	return NewRedis(rdb, local), nil
}
