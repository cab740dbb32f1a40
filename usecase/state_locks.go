package usecase

import "sync"

// StateLocks serializes per-user playback record access. The dispatcher and
// the reconciler both read-then-write the same record, so they must share one
// lock per user; cross-user operations stay fully independent.
type StateLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStateLocks() *StateLocks {
	return &StateLocks{locks: make(map[string]*sync.Mutex)}
}

// For returns the lock guarding a user's playback record, creating it on
// first use.
func (l *StateLocks) For(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}
