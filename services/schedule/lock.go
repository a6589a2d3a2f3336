package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrLockBusy is returned when another schedule change holds the specialist's lock.
var ErrLockBusy = errors.New("schedule lock is held by another request")

// Locker serialises schedule changes per specialist.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// MemoryLocker is an in-process Locker. It only serialises callers inside one process.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]bool)}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, ErrLockBusy
	}
	l.held[key] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLockClient is the part of *redis.Client the lock needs.
type RedisLockClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisLocker is an advisory lock shared by every server instance.
type RedisLocker struct {
	Client     RedisLockClient
	Logger     *zap.Logger
	TTL        time.Duration
	Retries    int
	RetryDelay time.Duration
	Prefix     string
}

// NewRedisLocker builds a RedisLocker with the given lock TTL.
func NewRedisLocker(client RedisLockClient, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{
		Client:     client,
		Logger:     logger,
		TTL:        ttl,
		Retries:    10,
		RetryDelay: 200 * time.Millisecond,
		Prefix:     "schedule:lock:",
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	fullKey := l.Prefix + key
	token := uuid.New().String()

	for attempt := 0; ; attempt++ {
		ok, err := l.Client.SetNX(ctx, fullKey, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire schedule lock: %w", err)
		}
		if ok {
			break
		}
		if attempt >= l.Retries {
			return nil, ErrLockBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.RetryDelay):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(fullKey, token) })
	}, nil
}

func (l *RedisLocker) release(fullKey, token string) {
	// The request context may already be cancelled; release on a fresh one.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	deleted, err := releaseScript.Run(ctx, l.Client, []string{fullKey}, token).Int64()
	switch {
	case err != nil:
		logger.Warn("Failed to release schedule lock, it stays held until the TTL expires",
			zap.String("key", fullKey),
			zap.Duration("ttl", l.TTL),
			zap.Error(err),
		)
	case deleted == 0:
		logger.Warn("Schedule lock expired before release", zap.String("key", fullKey))
	}
}
