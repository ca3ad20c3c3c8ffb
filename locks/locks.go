// Package locks serializes balance and session mutations per resource key.
// Keys are always acquired in sorted order so two transactions touching the
// same pair of accounts cannot deadlock.
package locks

import (
	"context"
	"sort"
	"sync"
	"time"

	"playpal/apperr"
	"playpal/rdx"
)

// lockTTL bounds how long a crashed holder can block a Redis key.
const lockTTL = 5 * time.Second

// Locker grants exclusive access to a set of resource keys. Acquire returns
// a release function, or apperr.ErrBusy when a key is already held.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (func(), error)
}

// sortedCopy sorts and dedupes so a repeated key cannot self-deadlock.
func sortedCopy(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	deduped := out[:0]
	for i, k := range out {
		if i == 0 || k != out[i-1] {
			deduped = append(deduped, k)
		}
	}
	return deduped
}

// RedisLocker implements Locker with SetNX leases, usable across processes.
type RedisLocker struct {
	client *rdx.Client
	prefix string
}

func NewRedisLocker(client *rdx.Client) *RedisLocker {
	return &RedisLocker{client: client, prefix: "acct_lock:"}
}

func (l *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	ordered := sortedCopy(keys)
	held := make([]string, 0, len(ordered))

	release := func() {
		for _, k := range held {
			if err := l.client.RdxDel(context.Background(), l.prefix+k); err != nil {
				// Lease expires on its own after lockTTL.
				continue
			}
		}
	}

	for _, k := range ordered {
		ok, err := l.client.RdxSetNX(ctx, l.prefix+k, "1", lockTTL)
		if err != nil {
			release()
			return nil, apperr.StorageUnavailable(err)
		}
		if !ok {
			release()
			return nil, apperr.ErrBusy
		}
		held = append(held, k)
	}
	return release, nil
}

// MemLocker implements Locker with in-process keyed mutexes. Tests and the
// memory storage backend use it.
type MemLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMemLocker() *MemLocker {
	return &MemLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *MemLocker) mutexFor(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

func (l *MemLocker) Acquire(_ context.Context, keys ...string) (func(), error) {
	ordered := sortedCopy(keys)
	held := make([]*sync.Mutex, 0, len(ordered))
	for _, k := range ordered {
		m := l.mutexFor(k)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}, nil
}
