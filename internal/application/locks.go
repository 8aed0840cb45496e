package application

import (
	"sort"
	"sync"
)

// PlayerLocks serialises economy operations per player. Multi-player operations
// lock in ascending id order.
type PlayerLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func NewPlayerLocks() *PlayerLocks {
	return &PlayerLocks{m: map[int64]*sync.Mutex{}}
}

func (l *PlayerLocks) get(id int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.m[id]
	if !ok {
		m = &sync.Mutex{}
		l.m[id] = m
	}
	return m
}

func (l *PlayerLocks) Lock(ids ...int64) (unlock func()) {
	uniq := make([]int64, 0, len(ids))
	seen := map[int64]bool{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	held := make([]*sync.Mutex, 0, len(uniq))
	for _, id := range uniq {
		m := l.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
