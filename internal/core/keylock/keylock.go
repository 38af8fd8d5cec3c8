package keylock

import (
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyLock provides per-key mutual exclusion. Operations on the same key are
// totally ordered by lock arrival; operations on different keys never block
// each other. Entries are dropped once the last holder releases, so the map
// does not grow with the key space.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func New() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*entry),
	}
}

func (kl *KeyLock) Lock(key string) {
	kl.mu.Lock()
	e, ok := kl.locks[key]
	if !ok {
		e = &entry{}
		kl.locks[key] = e
	}
	e.refs++
	kl.mu.Unlock()

	e.mu.Lock()
}

func (kl *KeyLock) Unlock(key string) {
	kl.mu.Lock()
	e, ok := kl.locks[key]
	if !ok {
		kl.mu.Unlock()
		panic("keylock: unlock of unheld key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(kl.locks, key)
	}
	kl.mu.Unlock()

	e.mu.Unlock()
}

// Do runs fn while holding the lock for key.
func (kl *KeyLock) Do(key string, fn func()) {
	kl.Lock(key)
	defer kl.Unlock(key)
	fn()
}
