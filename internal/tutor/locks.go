package tutor

import "sync"

// sessionLocks serializes operations per session ID: two operations on
// the same session never interleave, while different sessions proceed
// independently. Entries are never removed; a process touches a handful
// of sessions at most.
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{m: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for id, creating it on first use, and returns
// the matching unlock.
func (l *sessionLocks) acquire(id string) func() {
	l.mu.Lock()
	m, ok := l.m[id]
	if !ok {
		m = &sync.Mutex{}
		l.m[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
