package cache

import "sync"

// Memo holds a single lazily computed value. Nothing invalidates it, so the
// first computed value is reused for the life of the process.
type Memo[V any] struct {
	mu  sync.Mutex
	val V
	ok  bool
}

// NewMemo returns an empty Memo.
func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{}
}

// Get returns the cached value, calling fill to compute it on first use.
func (m *Memo[V]) Get(fill func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ok {
		m.val = fill()
		m.ok = true
	}
	return m.val
}
