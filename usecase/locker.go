package usecase

import "sync"

// entityLocker hands out one mutex per key. Entries are dropped once nobody holds
// or waits for them.
type entityLocker struct {
	mu    sync.Mutex
	locks map[string]*entityLock
}

type entityLock struct {
	mu   sync.Mutex
	refs int
}

func newEntityLocker() *entityLocker {
	return &entityLocker{locks: make(map[string]*entityLock)}
}

func (l *entityLocker) Lock(key string) (unlock func()) {
	l.mu.Lock()
	lock, exist := l.locks[key]
	if !exist {
		lock = &entityLock{}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *entityLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
