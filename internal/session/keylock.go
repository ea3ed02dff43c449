package session

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"
)

// keyLock serialises operations per image id. Locks for several ids are
// always taken in ascending id order.
type keyLock struct {
	mu    sync.Mutex
	locks map[int]*keyEntry
}

type keyEntry struct {
	sem  *semaphore.Weighted
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[int]*keyEntry)}
}

// lock acquires the locks for ids and returns the function that releases
// them. On error nothing is held.
func (k *keyLock) lock(ctx context.Context, ids ...int) (func(), error) {
	keys := uniqueSorted(ids)
	entries := make([]*keyEntry, len(keys))

	k.mu.Lock()
	for i, id := range keys {
		e, ok := k.locks[id]
		if !ok {
			e = &keyEntry{sem: semaphore.NewWeighted(1)}
			k.locks[id] = e
		}
		e.refs++
		entries[i] = e
	}
	k.mu.Unlock()

	for i, e := range entries {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			for _, held := range entries[:i] {
				held.sem.Release(1)
			}
			k.drop(keys)
			return nil, err
		}
	}

	return func() {
		for _, e := range entries {
			e.sem.Release(1)
		}
		k.drop(keys)
	}, nil
}

func (k *keyLock) drop(keys []int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, id := range keys {
		if e := k.locks[id]; e != nil {
			e.refs--
			if e.refs == 0 {
				delete(k.locks, id)
			}
		}
	}
}

func (k *keyLock) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func uniqueSorted(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
