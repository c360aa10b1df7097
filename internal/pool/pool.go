// Package pool recycles the per-invocation scratch state of the parsing
// engine. Every parse needs a claimed-token bitmap per tree level; pooling
// those keeps steady-state parsing free of per-call slice allocations under
// concurrent load.
package pool

import (
	"sync"
)

// Pool is a generic, type-safe object pool with an optional reset hook run
// before each reuse.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T)
}

// NewPool creates a pool backed by the given factory.
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return factory() },
		},
	}
}

// NewPoolWithReset creates a pool whose objects are reset before reuse.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or builds a fresh one.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool.
func (p *Pool[T]) Put(obj *T) {
	if obj != nil {
		p.pool.Put(obj)
	}
}

// claimedPool recycles the token-claim bitmaps used by the matcher.
var claimedPool = NewPool(func() *[]bool {
	s := make([]bool, 0, 32)
	return &s
})

// GetClaimed returns a cleared bitmap of length n.
func GetClaimed(n int) *[]bool {
	s := claimedPool.Get()
	if cap(*s) < n {
		*s = make([]bool, n)
		return s
	}
	*s = (*s)[:n]
	for i := range *s {
		(*s)[i] = false
	}
	return s
}

// PutClaimed returns a bitmap obtained from GetClaimed.
func PutClaimed(s *[]bool) {
	if s == nil {
		return
	}
	*s = (*s)[:0]
	claimedPool.Put(s)
}
