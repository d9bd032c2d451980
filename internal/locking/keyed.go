// Package locking provides per-key mutual exclusion. Gated mutations are
// serialized per cycle so two concurrent completions or exports cannot
// race past the completion gate between its check and its write.
package locking

import "sync"

// Keyed hands out one mutex per key. Mutexes are created on first use and
// kept for the registry's lifetime; the key space (cycle IDs) is small.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyed creates an empty lock registry.
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
//
//	unlock := locks.Lock(cycleID)
//	defer unlock()
func (k *Keyed) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
