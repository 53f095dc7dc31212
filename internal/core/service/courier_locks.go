package service

import "sync"

// courierLocks hands out one mutex per courier id. Entries are reference
// counted and removed when the last holder unlocks, so the map only holds
// couriers with an operation in flight.
type courierLocks struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newCourierLocks() *courierLocks {
	return &courierLocks{locks: make(map[string]*refMutex)}
}

// lock blocks until the courier's mutex is held and returns its release func.
func (l *courierLocks) lock(courierID string) func() {
	l.mu.Lock()
	m, ok := l.locks[courierID]
	if !ok {
		m = &refMutex{}
		l.locks[courierID] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.locks, courierID)
		}
		l.mu.Unlock()
	}
}

func (l *courierLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
