package ratelimit

import "sync"

// Locks hands out one mutex per author. Handlers hold the author's lock
// across the cooldown check and the mutation itself, so two concurrent
// submissions from the same author cannot both pass the check.
type Locks struct {
	mu      sync.Mutex
	entries map[int64]*sync.Mutex
}

func NewLocks() *Locks {
	return &Locks{entries: make(map[int64]*sync.Mutex)}
}

// Author returns the lock for the given author, creating it on first use.
// Locks are never released back; the table grows with the number of distinct
// authors seen by this process, which is bounded by the user table.
func (l *Locks) Author(authorID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.entries[authorID]
	if !ok {
		m = &sync.Mutex{}
		l.entries[authorID] = m
	}
	return m
}
