// Package synclock serializes runs of the same sync resource.
package synclock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("a sync run for this resource is already in progress")

const keyPrefix = "lock:catalog-sync:"

// Lease is a held lock.
type Lease interface {
	Release(ctx context.Context) error
}

type Locker interface {
	// Acquire takes the lock for resource or fails with ErrLocked.
	Acquire(ctx context.Context, resource string) (Lease, error)
}

// releaseScript deletes the key only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a SET NX lock with an expiry, so a crashed holder cannot
// block a resource forever.
type RedisLocker struct {
	client   redis.UniversalClient
	ttl      time.Duration
	attempts int
	wait     time.Duration
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisLocker{client: client, ttl: ttl, attempts: 3, wait: 100 * time.Millisecond}
}

func (l *RedisLocker) Acquire(ctx context.Context, resource string) (Lease, error) {
	key := keyPrefix + resource
	token := uuid.New().String()

	for i := 0; i < l.attempts; i++ {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return &redisLease{client: l.client, key: key, token: token}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.wait):
		}
	}
	return nil, ErrLocked
}

type redisLease struct {
	client redis.UniversalClient
	key    string
	token  string
}

func (l *redisLease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}

// LocalLocker guards resources within one process. It is used when no redis
// is configured and in tests.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: map[string]struct{}{}}
}

func (l *LocalLocker) Acquire(ctx context.Context, resource string) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[resource]; busy {
		return nil, ErrLocked
	}
	l.held[resource] = struct{}{}
	return &localLease{owner: l, resource: resource}, nil
}

type localLease struct {
	owner    *LocalLocker
	resource string
	once     sync.Once
}

func (l *localLease) Release(ctx context.Context) error {
	l.once.Do(func() {
		l.owner.mu.Lock()
		delete(l.owner.held, l.resource)
		l.owner.mu.Unlock()
	})
	return nil
}
