package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// unlockScript deletes the key only while it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisConfig configures a RedisLocker.
type RedisConfig struct {
	Prefix string
	// TTL bounds how long a crashed holder can keep a key.
	TTL       time.Duration
	Wait      time.Duration
	RetryWait time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Prefix:    "pronos:lock:",
		TTL:       10 * time.Second,
		Wait:      DefaultWait,
		RetryWait: 25 * time.Millisecond,
	}
}

// RedisLocker is a Locker shared by every instance talking to the same Redis.
type RedisLocker struct {
	client *redis.Client
	clock  clockwork.Clock
	cfg    RedisConfig
}

// NewRedisLocker creates a RedisLocker on an existing client.
func NewRedisLocker(client *redis.Client, clock clockwork.Clock, cfg RedisConfig) *RedisLocker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RedisLocker{client: client, clock: clock, cfg: cfg}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	ordered := normalize(keys)
	releases := make([]func(), 0, len(ordered))

	for _, key := range ordered {
		release, err := l.take(ctx, l.cfg.Prefix+key)
		if err != nil {
			releaseAll(releases)()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if err != errBusy {
				return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
			}
			return nil, unavailable(key)
		}
		releases = append(releases, release)
	}

	var once sync.Once
	release := releaseAll(releases)
	return func() { once.Do(release) }, nil
}

func (l *RedisLocker) take(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := l.clock.Now().Add(l.cfg.Wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// Release must run even when the caller's context is done.
				if err := unlockScript.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil {
					log.Error().Err(err).Str("lock", key).Msg("failed to release lock")
				}
			}, nil
		}
		if !l.clock.Now().Before(deadline) {
			return nil, errBusy
		}
		select {
		case <-l.clock.After(l.cfg.RetryWait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
