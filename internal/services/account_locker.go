package services

import "sync"

// AccountLocker serializes mutations per account. Requests for different
// accounts proceed in parallel; requests for the same account run one at a time.
type AccountLocker struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

// NewAccountLocker creates an empty AccountLocker.
func NewAccountLocker() *AccountLocker {
	return &AccountLocker{locks: make(map[string]*accountLock)}
}

// Lock blocks until the caller holds userID's lock and returns its release
// function. Entries are dropped once no goroutine holds or waits for them.
func (l *AccountLocker) Lock(userID string) (unlock func()) {
	l.mu.Lock()
	lk, ok := l.locks[userID]
	if !ok {
		lk = &accountLock{}
		l.locks[userID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

// size returns the number of tracked accounts.
func (l *AccountLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
