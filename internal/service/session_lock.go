package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionBusy = errors.New("session is busy")

// SessionLocker serializa las operaciones que mutan una misma sesion.
type SessionLocker interface {
	// Lock bloquea hasta obtener el lock o hasta que ctx termine (ErrSessionBusy).
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type memoryLockEntry struct {
	ch   chan struct{}
	refs int
}

type memorySessionLocker struct {
	mu      sync.Mutex
	entries map[string]*memoryLockEntry
}

// NewMemorySessionLocker sirve para un solo proceso.
func NewMemorySessionLocker() SessionLocker {
	return &memorySessionLocker{entries: make(map[string]*memoryLockEntry)}
}

func (l *memorySessionLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &memoryLockEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, entry)
		return nil, fmt.Errorf("%w: %w", ErrSessionBusy, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			l.release(key, entry)
		})
	}, nil
}

func (l *memorySessionLocker) release(key string, entry *memoryLockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}

const redisUnlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	redisEvaler
}

type redisSessionLocker struct {
	client redisLockClient
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

// NewRedisSessionLocker comparte el lock entre replicas. Si redis no responde
// se sigue sin lock; el stamp condicional de completion sigue protegiendo la sesion.
func NewRedisSessionLocker(client *redis.Client, ttl time.Duration) SessionLocker {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 3 * time.Minute
	}
	return &redisSessionLocker{
		client: client,
		prefix: "burnout:lock:session:",
		ttl:    ttl,
		retry:  50 * time.Millisecond,
	}
}

func (l *redisSessionLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	for {
		opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		ok, err := l.client.SetNX(opCtx, redisKey, token, l.ttl).Result()
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", ErrSessionBusy, ctx.Err())
			}
			return func() {}, nil
		}
		if ok {
			return func() {
				unlockCtx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
				defer cancel()
				_ = l.client.Eval(unlockCtx, redisUnlockScript, []string{redisKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrSessionBusy, ctx.Err())
		case <-time.After(l.retry):
		}
	}
}
