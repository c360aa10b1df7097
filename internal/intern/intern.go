// Package intern canonicalizes the small, hot set of strings the engine
// compares on every parse: flag names, option spellings, and sub-command
// names. Interned strings make repeated registry and child-map lookups hit
// the same backing data regardless of where a token came from.
package intern

import (
	"sync"
)

// Interner is a thread-safe string canonicalizer.
type Interner struct {
	mu      sync.RWMutex
	strings map[string]string
}

// NewInterner creates an interner with the given pre-allocated capacity.
func NewInterner(capacity int) *Interner {
	if capacity <= 0 {
		capacity = 64
	}
	return &Interner{strings: make(map[string]string, capacity)}
}

// Intern returns the canonical copy of s, storing it on first sight.
func (in *Interner) Intern(s string) string {
	in.mu.RLock()
	canonical, ok := in.strings[s]
	in.mu.RUnlock()
	if ok {
		return canonical
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	// Re-check under the write lock; another goroutine may have won.
	if canonical, ok = in.strings[s]; ok {
		return canonical
	}
	in.strings[s] = s
	return s
}

// Preload seeds the interner with strings known at setup time.
func (in *Interner) Preload(values []string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for _, s := range values {
		in.strings[s] = s
	}
}

// Len returns the number of interned strings.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strings)
}

var defaultInterner = NewInterner(128)

// Intern canonicalizes s in the package-level interner.
func Intern(s string) string {
	return defaultInterner.Intern(s)
}

// Preload seeds the package-level interner.
func Preload(values []string) {
	defaultInterner.Preload(values)
}
