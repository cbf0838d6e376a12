package services

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// EntityLocks serializes mutations per entity. Transition, assignment and
// submission all read-then-write idea and user rows; two calls touching the
// same row must not interleave.
type EntityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEntityLocks() *EntityLocks {
	return &EntityLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutexes for the given keys and returns their unlock func.
// Keys are taken in sorted order so callers locking overlapping sets cannot
// deadlock. A caller locking an idea and its users must take the idea key in
// a separate call first, never after a user key.
func (l *EntityLocks) Lock(keys ...string) func() {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	var last string
	for i, key := range sorted {
		if i > 0 && key == last {
			continue
		}
		last = key
		m := l.mutexFor(key)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (l *EntityLocks) mutexFor(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

func ideaKey(id uuid.UUID) string { return "idea/" + id.String() }

func userKey(email string) string { return "user/" + email }
