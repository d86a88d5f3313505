package usecase

import (
	"sync"

	"github.com/bnema/dcshell/internal/domain/entity"
)

// keyedMutex serializes opens of the same (account, message). The zero
// value is ready to use.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[entity.InstanceKey]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until key is free and returns its unlock function.
func (k *keyedMutex) Lock(key entity.InstanceKey) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[entity.InstanceKey]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// held reports how many callers hold or wait for key.
func (k *keyedMutex) held(key entity.InstanceKey) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if l, ok := k.locks[key]; ok {
		return l.refs
	}
	return 0
}
