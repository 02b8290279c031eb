// Package lock provides a mutex keyed by identifier, used to serialize
// request-scoped work that contends on a single order or session.
package lock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Keyed hands out one mutex per key. Entries are dropped once the last
// holder releases, so the map stays bounded by in-flight keys.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewKeyed constructs an empty keyed lock.
func NewKeyed() *Keyed {
	return &Keyed{entries: map[string]*entry{}}
}

// Lock acquires the mutex for key and returns its release function.
func (k *Keyed) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
