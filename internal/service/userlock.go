package service

import "sync"

// UserLocks serializes read-modify-write streak sequences per user. Both the
// submission and appeal workflows update the same streak field; without a
// per-user critical section two concurrent writers could each read the same
// stale value and one update would be lost.
type UserLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewUserLocks builds an empty lock table.
func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the mutex for the given user and returns its release func.
func (l *UserLocks) Lock(userID uint) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
