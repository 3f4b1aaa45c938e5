package usecase

import "sync"

// RolloverLocker serializes the cold-path rollover for a category. The
// engine owns its locker instance, so tests can substitute a keyed or
// no-op variant.
type RolloverLocker interface {
	Lock(category string)
	Unlock(category string)
}

// GlobalLocker is a single mutex shared by every category: concurrent
// cold-start rollovers for different categories serialize behind each
// other. This matches the platform's historical behavior and is the
// default; correctness only needs per-category exclusion, so KeyedLocker
// is a drop-in upgrade where that serialization hurts.
type GlobalLocker struct {
	mu sync.Mutex
}

func NewGlobalLocker() *GlobalLocker {
	return &GlobalLocker{}
}

func (l *GlobalLocker) Lock(category string)   { l.mu.Lock() }
func (l *GlobalLocker) Unlock(category string) { l.mu.Unlock() }

// KeyedLocker holds one mutex per category, created lazily.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *KeyedLocker) Lock(category string) {
	l.mu.Lock()
	m, ok := l.locks[category]
	if !ok {
		m = &sync.Mutex{}
		l.locks[category] = m
	}
	l.mu.Unlock()

	m.Lock()
}

func (l *KeyedLocker) Unlock(category string) {
	l.mu.Lock()
	m := l.locks[category]
	l.mu.Unlock()

	m.Unlock()
}
