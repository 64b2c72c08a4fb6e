package orthanc

import "sync/atomic"

// cached is the fetched state of a lazily loaded value. A nil *cached means the
// value was never fetched, so a fetched empty slice stays distinguishable.
type cached[T any] struct {
	value T
}

// lazy holds an optional cached value. Concurrent first loads may both fetch;
// whichever Store lands last is kept.
type lazy[T any] struct {
	ptr atomic.Pointer[cached[T]]
}

func (l *lazy[T]) Load() (T, bool) {
	entry := l.ptr.Load()
	if entry == nil {
		var zero T
		return zero, false
	}
	return entry.value, true
}

func (l *lazy[T]) Store(value T) {
	l.ptr.Store(&cached[T]{value: value})
}
