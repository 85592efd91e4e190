package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

const (
	DefaultLockTTL   = 10 * time.Second
	lockPollInterval = 25 * time.Millisecond
	lockKeyPrefix    = "jobtrack:lock:"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired holder never releases a lock that has moved on to someone else.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a Redis-backed per-key mutex shared by every instance talking to the
// same Redis. A holder that dies keeps the key for at most ttl.
type Lock struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewLock(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) (*Lock, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &Lock{log: log.With("service", "RedisLock"), rdb: rdb, ttl: ttl}, nil
}

// Lock polls SET NX until it wins or ctx ends.
func (l *Lock) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Lock) releaser(redisKey, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true
		// The caller's ctx may already be cancelled; release on a fresh one.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{redisKey}, token).Err(); err != nil {
			l.log.Warn("redis unlock failed", "key", redisKey, "error", err)
		}
	}
}
